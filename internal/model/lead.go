// internal/model/lead.go
package model

type Lead struct {
	ID        string  `json:"_id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Job       string  `json:"job"`
	Address   string  `json:"address"`
	Score     float64 `json:"score"`
	CreatedAt string  `json:"createdAt"`
}
