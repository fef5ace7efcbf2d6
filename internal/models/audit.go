package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID           int64           `json:"id" db:"id"`
	Action       string          `json:"action" db:"action"`
	Actor        string          `json:"actor" db:"actor"`
	TargetEntity string          `json:"target_entity" db:"target_entity"`
	Details      json.RawMessage `json:"details,omitempty" db:"details"`
	IPAddress    string          `json:"ip_address" db:"ip_address"`
	Timestamp    time.Time       `json:"timestamp" db:"timestamp"`
}
