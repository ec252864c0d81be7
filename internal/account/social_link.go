package account

import "github.com/feral-file/ff-social-escrow/internal/domain"

// Handle returns the handle linked for platform, or "" when none is set
func (s *SocialLink) Handle(platform domain.Platform) string {
	switch platform {
	case domain.PlatformTwitter:
		return s.Twitter
	case domain.PlatformInstagram:
		return s.Instagram
	case domain.PlatformLinkedIn:
		return s.LinkedIn
	}
	return ""
}

// SetHandle overwrites the handle for platform
func (s *SocialLink) SetHandle(platform domain.Platform, handle string) {
	switch platform {
	case domain.PlatformTwitter:
		s.Twitter = handle
	case domain.PlatformInstagram:
		s.Instagram = handle
	case domain.PlatformLinkedIn:
		s.LinkedIn = handle
	}
}

// Handles returns the non-empty linked handles keyed by platform
func (s *SocialLink) Handles() map[domain.Platform]string {
	handles := make(map[domain.Platform]string, len(domain.Platforms))
	for _, p := range domain.Platforms {
		if h := s.Handle(p); h != "" {
			handles[p] = h
		}
	}
	return handles
}

// Owns reports whether handle is linked on any platform
func (s *SocialLink) Owns(handle string) bool {
	if handle == "" {
		return false
	}
	for _, p := range domain.Platforms {
		if s.Handle(p) == handle {
			return true
		}
	}
	return false
}
