package server

import (
	"context"
	"fmt"

	"github.com/jrsteele09/homecare-session/internal/config"
	"github.com/jrsteele09/homecare-session/resources"
	"github.com/jrsteele09/homecare-session/users"
	"github.com/rs/zerolog/log"
)

// SeedAccounts creates the configured login accounts if they do not exist yet. Nurse and patient
// accounts also get a matching record, with every seeded patient assigned to the first seeded nurse.
func (s *Server) SeedAccounts(ctx context.Context, accounts []config.SeedAccount) error {
	var firstNurse *resources.Nurse
	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			return err
		}
		created, err := s.seedUser(account)
		if err != nil {
			return fmt.Errorf("[Server SeedAccounts] %s %q: %w", account.Role, account.UserID, err)
		}

		switch account.Role {
		case users.RoleNurse:
			nurse, err := s.records.Nurses.Insert(resources.Nurse{
				UserID:   account.UserID,
				FullName: account.FullName,
				IsActive: true,
			})
			if err != nil {
				return fmt.Errorf("[Server SeedAccounts] nurse record: %w", err)
			}
			if firstNurse == nil {
				firstNurse = &nurse
			}
		case users.RolePatient:
			patient := resources.Patient{UserID: account.UserID, FullName: account.FullName}
			if firstNurse != nil {
				patient.AssignedNurse = &resources.Ref{ID: firstNurse.ID, FullName: firstNurse.FullName}
			}
			if _, err := s.records.Patients.Insert(patient); err != nil {
				return fmt.Errorf("[Server SeedAccounts] patient record: %w", err)
			}
		}

		if created && s.env == "DEV" {
			log.Info().
				Str("role", account.Role.String()).
				Str("user_id", account.UserID).
				Str("password", account.Password).
				Msg("seeded account")
		}
	}
	return nil
}

// seedUser creates the account unless one with the same role and login exists
func (s *Server) seedUser(account config.SeedAccount) (bool, error) {
	if _, err := users.ParseRole(account.Role.String()); err != nil {
		return false, err
	}
	if _, err := s.repos.Users.GetByLogin(account.Role, account.UserID); err == nil {
		return false, nil
	}

	hash, err := users.HashPassword(account.Password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	user := &users.User{
		UserID:       account.UserID,
		FullName:     account.FullName,
		Role:         account.Role,
		PasswordHash: hash,
	}
	if err := s.repos.Users.Upsert(user); err != nil {
		return false, err
	}
	return true, nil
}
