package schema

import "time"

// Account represents the accounts table - raw account data keyed by derived address
type Account struct {
	// Address is the base58 account address
	Address string `gorm:"column:address;primaryKey;type:varchar(44)"`
	// Owner is the program that owns the account data
	Owner string `gorm:"column:owner;not null;type:varchar(44);index"`
	// Kind identifies the account layout (config, social_link, pending_claim, payment_record, token_account)
	Kind string `gorm:"column:kind;not null;type:varchar(32);index"`
	// Data is the encoded account data at its allocated size
	Data      []byte    `gorm:"column:data;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Account) TableName() string {
	return "accounts"
}
