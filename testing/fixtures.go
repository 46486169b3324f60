package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/efine-sl/efine-api/models"
	"github.com/efine-sl/efine-api/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plain password behind every fixture hash
const TestPassword = "secret1"

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

func hashTestPassword() (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func randomDigits(n int) string {
	digits := make([]byte, n)
	for i := range digits {
		digits[i] = byte('0' + rand.Intn(10))
	}
	return string(digits)
}

// CreateTestAdmin creates an active admin with the given role and two-factor off
func (tf *TestFixtures) CreateTestAdmin(role models.AdminRole) (*models.Admin, error) {
	hash, err := hashTestPassword()
	if err != nil {
		return nil, err
	}

	admin := &models.Admin{
		UUID:         uuid.New(),
		Name:         "Test Admin",
		Email:        fmt.Sprintf("admin.%s@efine.test", randomDigits(8)),
		PasswordHash: hash,
		Role:         role,
		ProfileImage: utils.DefaultAdminProfileImage,
		IsActive:     utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create test admin: %w", err)
	}
	return admin, nil
}

// CreateTestDriver creates an active driver with a random licence number
func (tf *TestFixtures) CreateTestDriver() (*models.Driver, error) {
	hash, err := hashTestPassword()
	if err != nil {
		return nil, err
	}

	suffix := randomDigits(7)
	driver := &models.Driver{
		UUID:          uuid.New(),
		Name:          "Kamal Silva",
		NIC:           "19" + randomDigits(10),
		LicenseNumber: "B" + suffix,
		Email:         fmt.Sprintf("driver.%s@efine.test", suffix),
		Phone:         "0771234567",
		PasswordHash:  hash,
		LicenseStatus: models.LicenseStatusActive,
		VehicleClasses: []models.VehicleClass{
			{Category: "B1"},
		},
	}
	if err := tf.DB.DB.Create(driver).Error; err != nil {
		return nil, fmt.Errorf("failed to create test driver: %w", err)
	}
	return driver, nil
}

// CreateTestOfficer creates a field officer at the given station name
func (tf *TestFixtures) CreateTestOfficer(policeStation string) (*models.PoliceOfficer, error) {
	hash, err := hashTestPassword()
	if err != nil {
		return nil, err
	}

	badge := "PC" + randomDigits(5)
	officer := &models.PoliceOfficer{
		UUID:          uuid.New(),
		Name:          "Officer Perera",
		BadgeNumber:   badge,
		Email:         fmt.Sprintf("%s@police.test", badge),
		PasswordHash:  hash,
		PoliceStation: policeStation,
		Position:      "Constable",
		ProfileImage:  utils.DefaultOfficerProfileImage,
		Role:          models.OfficerRoleOfficer,
	}
	if err := tf.DB.DB.Create(officer).Error; err != nil {
		return nil, fmt.Errorf("failed to create test officer: %w", err)
	}
	return officer, nil
}

// CreateTestOffense creates a catalogue entry
func (tf *TestFixtures) CreateTestOffense(name string, amount float64) (*models.Offense, error) {
	offense := &models.Offense{
		UUID:        uuid.New(),
		OffenseName: name,
		Amount:      amount,
		Description: name + " (fixture)",
	}
	if err := tf.DB.DB.Create(offense).Error; err != nil {
		return nil, fmt.Errorf("failed to create test offense: %w", err)
	}
	return offense, nil
}

// CreateTestFine issues a fine for the offense. A non-nil paidAt marks it Paid.
func (tf *TestFixtures) CreateTestFine(offense *models.Offense, licenseNumber string, date time.Time, paidAt *time.Time) (*models.IssuedFine, error) {
	fine := &models.IssuedFine{
		UUID:            uuid.New(),
		LicenseNumber:   licenseNumber,
		VehicleNumber:   "WP CAB-" + randomDigits(4),
		OffenseID:       offense.UUID,
		OffenseName:     offense.OffenseName,
		Amount:          offense.Amount,
		Place:           "Colombo 07",
		PoliceOfficerID: "PC" + randomDigits(5),
		Date:            date,
		Status:          models.FineStatusUnpaid,
	}
	if paidAt != nil {
		fine.Status = models.FineStatusPaid
		fine.PaidAt = paidAt
		fine.PaymentID = "PH-" + randomDigits(8)
	}
	if err := tf.DB.DB.Create(fine).Error; err != nil {
		return nil, fmt.Errorf("failed to create test fine: %w", err)
	}
	return fine, nil
}

// CreateTestStation creates a police station with an OIC mailbox
func (tf *TestFixtures) CreateTestStation(code, name string) (*models.PoliceStation, error) {
	station := &models.PoliceStation{
		StationCode:   code,
		Name:          name,
		OfficialEmail: fmt.Sprintf("oic.%s@police.test", code),
	}
	if err := tf.DB.DB.Create(station).Error; err != nil {
		return nil, fmt.Errorf("failed to create test station: %w", err)
	}
	return station, nil
}
