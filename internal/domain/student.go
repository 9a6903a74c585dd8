package domain

import "time"

// Student is a row of student_details. LRN (Learner Reference Number)
// is the canonical identifier across all tables.
type Student struct {
	LRN        string
	Email      string
	FirstName  string
	MiddleName string
	LastName   string
	Suffix     string
	Strand     string
	YearLevel  string
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Credential is the login-relevant slice of a student account. Password
// is either a bcrypt hash or, for legacy rows, plaintext. It may be
// empty for accounts that only ever used OTP login.
type Credential struct {
	LRN      string
	Email    string
	Password string
}

// ProfileUpdate carries the fields a student may change themselves.
// Nil pointers mean "leave as is".
type ProfileUpdate struct {
	FirstName  *string
	MiddleName *string
	LastName   *string
	Suffix     *string
}

// Documents holds the object-storage URLs of a student's submitted
// paperwork. Empty string means not yet uploaded.
type Documents struct {
	LRN                string
	BirthCert          string
	Form137            string
	GoodMoral          string
	ReportCard         string
	Picture            string
	TranscriptRecords  string
	HonorableDismissal string
}

// Enrollment is one semester enrollment submission.
type Enrollment struct {
	ID             int64
	LRN            string
	SchoolYear     string
	Semester       string
	GradeSlipURL   string
	Status         string
	EnrollmentType string
	SubmittedAt    time.Time
}

type Announcement struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	Content string `json:"content"`
}
