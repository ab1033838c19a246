package models

// StaffStatus marks whether an account may be used.
type StaffStatus string

const (
	StaffActive   StaffStatus = "ACTIVE"
	StaffInactive StaffStatus = "INACTIVE"
)

// StaffMember mirrors one row of GET /api/staff/getAllStaff. The password is
// write-only and never read back.
type StaffMember struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	PhoneNumber string      `json:"phoneNumber"`
	Designation string      `json:"designation"`
	Department  string      `json:"department"`
	Rights      Role        `json:"rights"`
	Status      StaffStatus `json:"status"`
}

// StaffPayload is the body of the add and update staff endpoints. An empty
// password is dropped from the JSON so updates keep the stored credential.
type StaffPayload struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Password    string      `json:"password,omitempty"`
	PhoneNumber string      `json:"phoneNumber"`
	Designation string      `json:"designation"`
	Department  string      `json:"department"`
	Rights      Role        `json:"rights"`
	Status      StaffStatus `json:"status"`
}
