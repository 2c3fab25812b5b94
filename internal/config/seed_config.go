package config

import "github.com/jrsteele09/homecare-session/users"

// SeedAccount is an account the dev API creates at start-up
type SeedAccount struct {
	Role     users.Role
	UserID   string
	FullName string
	Password string
}

type SeedConfig interface {
	GetSeedAccounts() []SeedAccount
}

type Seed struct{}

var _ SeedConfig = Seed{}

func (Seed) GetSeedAccounts() []SeedAccount {
	return []SeedAccount{
		{
			Role:     users.RoleAdmin,
			UserID:   GetEnv("SEED_ADMIN_ID", "admin"),
			FullName: GetEnv("SEED_ADMIN_NAME", "Console Admin"),
			Password: GetEnv("SEED_ADMIN_PASSWORD", "admin123"),
		},
		{
			Role:     users.RoleNurse,
			UserID:   GetEnv("SEED_NURSE_ID", "N-001"),
			FullName: GetEnv("SEED_NURSE_NAME", "Grace Nurse"),
			Password: GetEnv("SEED_NURSE_PASSWORD", "nurse123"),
		},
		{
			Role:     users.RolePatient,
			UserID:   GetEnv("SEED_PATIENT_ID", "P-001"),
			FullName: GetEnv("SEED_PATIENT_NAME", "Peter Patient"),
			Password: GetEnv("SEED_PATIENT_PASSWORD", "patient123"),
		},
	}
}
