package schema

import (
	"time"

	"gorm.io/datatypes"
)

// InstructionLog represents the instruction_logs table - journal of every executed instruction
type InstructionLog struct {
	// ID is a ULID so lexical order follows execution order
	ID          string `gorm:"column:id;primaryKey;type:varchar(26)"`
	Instruction string `gorm:"column:instruction;not null;type:varchar(64);index"`
	// Signer is the wallet that signed the instruction
	Signer string `gorm:"column:signer;not null;type:varchar(44);index"`
	// Wallet is the counterparty wallet when there is one (recipient, linked owner)
	Wallet *string `gorm:"column:wallet;type:varchar(44);index"`
	Handle *string `gorm:"column:handle;type:varchar(64);index"`
	// Status is succeeded or failed
	Status       string  `gorm:"column:status;not null;type:varchar(16)"`
	ErrorCode    *uint32 `gorm:"column:error_code"`
	ErrorMessage *string `gorm:"column:error_message;type:text"`
	// Args holds the instruction arguments as submitted
	Args      datatypes.JSON `gorm:"column:args"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (InstructionLog) TableName() string {
	return "instruction_logs"
}
