package domain

import "time"

// KYC verification states for a user.
const (
	KYCPending  = "pending"
	KYCVerified = "verified"
	KYCRejected = "rejected"
)

// Address holds a user's postal address.
type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	ZipCode string `json:"zip_code" bson:"zip_code"`
	Country string `json:"country" bson:"country"`
}

// NotificationPrefs controls which channels a user receives notifications on.
type NotificationPrefs struct {
	Email bool `json:"email" bson:"email"`
	SMS   bool `json:"sms" bson:"sms"`
	Push  bool `json:"push" bson:"push"`
}

// Preferences holds user-facing settings.
type Preferences struct {
	Theme         string            `json:"theme" bson:"theme"`
	Language      string            `json:"language" bson:"language"`
	Notifications NotificationPrefs `json:"notifications" bson:"notifications"`
}

// User is the profile record for one bank customer. Users are created on
// first authenticated contact and never hard-deleted; IsActive is the soft
// status flag.
type User struct {
	ID               string      `json:"id" bson:"-"`
	ExternalID       string      `json:"external_id" bson:"external_id"`
	Email            string      `json:"email" bson:"email"`
	FirstName        string      `json:"first_name" bson:"first_name"`
	LastName         string      `json:"last_name" bson:"last_name"`
	PhoneNumber      string      `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	DateOfBirth      *time.Time  `json:"date_of_birth,omitempty" bson:"date_of_birth,omitempty"`
	Income           float64     `json:"income,omitempty" bson:"income,omitempty"`
	EmploymentStatus string      `json:"employment_status,omitempty" bson:"employment_status,omitempty"`
	CreditScore      int         `json:"credit_score,omitempty" bson:"credit_score,omitempty"`
	Address          *Address    `json:"address,omitempty" bson:"address,omitempty"`
	Preferences      Preferences `json:"preferences" bson:"preferences"`
	KYCStatus        string      `json:"kyc_status" bson:"kyc_status"`
	IsActive         bool        `json:"is_active" bson:"is_active"`
	ProfileCompleted bool        `json:"profile_completed" bson:"profile_completed"`
	CreatedAt        time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" bson:"updated_at"`
}

// Age computes the user's age in whole years at the given instant.
// Returns 0 when no date of birth is recorded.
func (u *User) Age(now time.Time) int {
	if u.DateOfBirth == nil {
		return 0
	}
	dob := *u.DateOfBirth
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// FullName joins first and last name, tolerating either being empty.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
