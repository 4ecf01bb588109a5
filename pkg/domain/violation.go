package domain

import "time"

// Violation is the append-only record written when an enforcement decision fails.
// Reason carries the kind of the raised enforcement error as its reason code.
type Violation struct {
	ID          uint        `json:"id" gorm:"primaryKey;autoIncrement"`
	PolicyID    uint        `json:"policyId"`
	PolicyName  string      `json:"policyName"`
	AccessLevel AccessLevel `json:"accessLevel"`
	Reason      string      `json:"reason"`
	CreatedAt   time.Time   `json:"created"`
}
