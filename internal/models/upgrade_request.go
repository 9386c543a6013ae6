package models

type UpgradeRequestStatus string

const (
	UpgradeStatusPending  UpgradeRequestStatus = "pending"
	UpgradeStatusApproved UpgradeRequestStatus = "approved"
	UpgradeStatusRejected UpgradeRequestStatus = "rejected"
)

// UpgradeRequest records a user-initiated plan change awaiting an admin
// decision. Status only ever moves pending -> approved or pending ->
// rejected; terminal rows are kept for the status view.
type UpgradeRequest struct {
	BaseModel
	UserEmail     string               `json:"userEmail" gorm:"type:varchar(255);not null;index"`
	CurrentPlan   string               `json:"currentPlan" gorm:"type:varchar(20);not null"`
	RequestedPlan string               `json:"requestedPlan" gorm:"type:varchar(20);not null"`
	Status        UpgradeRequestStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
}

func (UpgradeRequest) TableName() string {
	return "upgrade_requests"
}

func (s UpgradeRequestStatus) Terminal() bool {
	return s == UpgradeStatusApproved || s == UpgradeStatusRejected
}
