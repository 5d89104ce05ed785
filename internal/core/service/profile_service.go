package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

type ProfileService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewProfileService(users ports.UserRepository, logger zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, logger: logger}
}

// GetOrCreate returns the profile for the external identity, creating a
// placeholder record on first contact. The placeholder email keeps the
// unique index happy until the user fills in their real one.
func (s *ProfileService) GetOrCreate(ctx context.Context, externalID string) (*domain.User, error) {
	user, err := s.users.FindByExternalID(ctx, externalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		ExternalID: externalID,
		Email:      fmt.Sprintf("%s@pending.local", externalID),
		Preferences: domain.Preferences{
			Theme:    "light",
			Language: "en",
			Notifications: domain.NotificationPrefs{
				Email: true,
			},
		},
		KYCStatus: domain.KYCPending,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("external_id", externalID).Str("user_id", created.ID).Msg("user created on first contact")
	return created, nil
}

func (s *ProfileService) Update(ctx context.Context, externalID string, in ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.GetOrCreate(ctx, externalID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"updated_at": time.Now().UTC()}
	if in.FirstName != nil {
		fields["first_name"] = *in.FirstName
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		fields["last_name"] = *in.LastName
		user.LastName = *in.LastName
	}
	if in.Email != nil {
		fields["email"] = *in.Email
		user.Email = *in.Email
	}
	if in.PhoneNumber != nil {
		fields["phone_number"] = *in.PhoneNumber
		user.PhoneNumber = *in.PhoneNumber
	}
	if in.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *in.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("invalid date_of_birth: %w", err)
		}
		fields["date_of_birth"] = dob
		user.DateOfBirth = &dob
	}
	if in.Income != nil {
		fields["income"] = *in.Income
		user.Income = *in.Income
	}
	if in.EmploymentStatus != nil {
		fields["employment_status"] = *in.EmploymentStatus
		user.EmploymentStatus = *in.EmploymentStatus
	}
	if in.CreditScore != nil {
		fields["credit_score"] = *in.CreditScore
		user.CreditScore = *in.CreditScore
	}
	if in.Address != nil {
		fields["address"] = *in.Address
		user.Address = in.Address
	}
	if in.Preferences != nil {
		fields["preferences"] = *in.Preferences
		user.Preferences = *in.Preferences
	}

	fields["profile_completed"] = completion(user).Complete

	updated, err := s.users.Update(ctx, user.ID, fields)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Int("fields", len(fields)).Msg("profile updated")
	return updated, nil
}

// MarkComplete flags the profile as completed, rejecting profiles that still
// miss required fields.
func (s *ProfileService) MarkComplete(ctx context.Context, externalID string) (*domain.User, error) {
	user, err := s.GetOrCreate(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if !completion(user).Complete {
		return nil, domain.ErrProfileIncomplete
	}
	updated, err := s.users.Update(ctx, user.ID, map[string]any{
		"profile_completed": true,
		"updated_at":        time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("profile marked complete")
	return updated, nil
}

func (s *ProfileService) Completion(ctx context.Context, externalID string) (*ports.ProfileCompletion, error) {
	user, err := s.GetOrCreate(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return completion(user), nil
}

// completion checks the five required fields plus the optional address. The
// percentage counts all six so a profile without an address tops out below
// 100 while still reading as complete.
func completion(u *domain.User) *ports.ProfileCompletion {
	type field struct {
		name     string
		filled   bool
		required bool
	}
	fields := []field{
		{"income", u.Income > 0, true},
		{"date_of_birth", u.DateOfBirth != nil, true},
		{"phone_number", u.PhoneNumber != "", true},
		{"employment_status", u.EmploymentStatus != "", true},
		{"credit_score", u.CreditScore > 0, true},
		{"address", u.Address != nil, false},
	}

	filled := 0
	complete := true
	var missing []string
	for _, f := range fields {
		if f.filled {
			filled++
			continue
		}
		missing = append(missing, f.name)
		if f.required {
			complete = false
		}
	}

	return &ports.ProfileCompletion{
		Complete:      complete,
		Percentage:    filled * 100 / len(fields),
		MissingFields: missing,
	}
}
