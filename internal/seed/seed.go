package seed

import (
	"context"
	"fmt"

	"github.com/OmerBikec/Enid-Beauty/internal/auth"
	"github.com/OmerBikec/Enid-Beauty/internal/identity"
	"github.com/OmerBikec/Enid-Beauty/internal/patients"
	"github.com/OmerBikec/Enid-Beauty/internal/records"
	"github.com/OmerBikec/Enid-Beauty/internal/staff"
	"github.com/OmerBikec/Enid-Beauty/pkg/logging"
)

// Deps are the services demo data is loaded through, so seeding exercises
// the same validation and journalling as live traffic.
type Deps struct {
	Patients    *patients.Service
	Records     *records.Service
	Staff       *staff.Service
	Credentials *auth.CredentialStore
	Logger      *logging.Logger
}

// Apply loads a small demo data set for local development. It is not meant
// for production and every demo account shares the password below.
func Apply(ctx context.Context, d Deps) error {
	logger := d.Logger
	if logger == nil {
		logger = logging.Default()
	}
	const demoPassword = "demo-pass-123"

	admin, err := d.Patients.Enroll(ctx, &patients.Patient{
		Name:    "Olivia",
		Surname: "Reed",
		Email:   "admin@enidbeauty.com",
		Role:    identity.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("seed: admin account: %w", err)
	}
	adminIdent := identity.Identity{UserID: admin.ID, Role: identity.RoleAdmin}

	emma, err := d.Patients.Enroll(ctx, &patients.Patient{
		Name:       "Emma",
		Surname:    "Carter",
		Email:      "emma@example.com",
		Role:       identity.RolePatient,
		NationalID: "12345678901",
		Phone:      "+1 555 100 2030",
	})
	if err != nil {
		return fmt.Errorf("seed: patient account: %w", err)
	}
	sophia, err := d.Patients.Enroll(ctx, &patients.Patient{
		Name:       "Sophia",
		Surname:    "Bennett",
		Email:      "sophia@example.com",
		Role:       identity.RolePatient,
		NationalID: "23456789012",
		Phone:      "+1 555 200 3040",
	})
	if err != nil {
		return fmt.Errorf("seed: patient account: %w", err)
	}
	for _, id := range []string{admin.ID, emma.ID, sophia.ID} {
		if err := d.Credentials.Set(id, demoPassword); err != nil {
			return fmt.Errorf("seed: credentials: %w", err)
		}
	}

	demoRecords := []*records.ServiceRecord{
		{
			UserID:            emma.ID,
			Treatment:         "Hair Transplant (DHI)",
			Date:              "2023-05-12",
			StartTime:         "09:00",
			EndTime:           "16:00",
			Doctor:            "Dr. Mark Ellison",
			Notes:             "3500 grafts, front hairline work.",
			TotalSessions:     1,
			CompletedSessions: 1,
			Instructions:      "- No water contact for the first 3 days.\n- No hats.\n- Use the provided lotion.",
		},
		{
			UserID:            emma.ID,
			Treatment:         "Laser Hair Removal",
			Date:              "2023-06-15",
			StartTime:         "14:00",
			EndTime:           "14:30",
			Doctor:            "Dr. Olivia Reed",
			Notes:             "Full-leg session.",
			TotalSessions:     8,
			CompletedSessions: 3,
			Instructions:      "- Stay out of the sun.\n- No exfoliating.\n- No hot showers.",
		},
		{
			UserID:        emma.ID,
			Treatment:     "Mesotherapy",
			Date:          "2026-06-01",
			StartTime:     "10:00",
			EndTime:       "10:30",
			Doctor:        "Dr. Olivia Reed",
			Notes:         "Hair strengthening cocktail.",
			TotalSessions: 4,
		},
		{
			UserID:            sophia.ID,
			Treatment:         "Botox",
			Date:              "2023-11-20",
			StartTime:         "15:00",
			EndTime:           "15:30",
			Doctor:            "Dr. Mark Ellison",
			Notes:             "Masseter botox applied.",
			TotalSessions:     1,
			CompletedSessions: 1,
		},
	}
	for _, rec := range demoRecords {
		if _, err := d.Records.Create(ctx, adminIdent, rec); err != nil {
			return fmt.Errorf("seed: record %q: %w", rec.Treatment, err)
		}
	}

	demoStaff := []*staff.Member{
		{Name: "Dr. Mark Ellison", Role: staff.RoleSpecialist, Phone: "+1 555 111 2233"},
		{Name: "Alice Turner", Role: staff.RoleAesthetician, Phone: "+1 555 222 3344"},
	}
	for _, m := range demoStaff {
		if _, err := d.Staff.Add(ctx, adminIdent, m); err != nil {
			return fmt.Errorf("seed: staff %q: %w", m.Name, err)
		}
	}

	logger.Info("demo data loaded",
		"admin_email", admin.Email,
		"patients", 2,
		"records", len(demoRecords),
		"staff", len(demoStaff),
	)
	return nil
}
