// internal/model/campaign.go
package model

// Token is the auth token embedded in a linked ad account.
type Token struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type Account struct {
	MongoID   string `json:"_id,omitempty"`
	Token     Token  `json:"token"`
	Name      string `json:"name"`
	ID        string `json:"id"`
	IsDefault bool   `json:"isDefault"`
}

// Channel is an advertising platform selected for a campaign.
type Channel struct {
	MongoID string    `json:"_id,omitempty"`
	Name    string    `json:"name"`
	Account []Account `json:"account"`
}

type TargetAudience struct {
	MongoID     string `json:"_id,omitempty"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	AgeRange    string `json:"ageRange" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Job         string `json:"job" validate:"required"`
}

// Campaign is the server-authoritative record. It is never mutated client side.
type Campaign struct {
	ID             string           `json:"_id"`
	Name           string           `json:"name"`
	StartDate      string           `json:"startDate"`
	EndDate        string           `json:"endDate"`
	Budget         float64          `json:"budget"`
	Channels       []Channel        `json:"channels"`
	TargetAudience []TargetAudience `json:"targetAudience"`
	CreatedAt      string           `json:"createdAt"`
}

// DraftCampaign is the partially populated record built by the creation wizard.
// It is also the exact body sent to POST /campaign.
type DraftCampaign struct {
	Name           string           `json:"name"`
	StartDate      string           `json:"startDate"`
	EndDate        string           `json:"endDate"`
	Budget         float64          `json:"budget"`
	Channels       []Channel        `json:"channels"`
	TargetAudience []TargetAudience `json:"targetAudience"`
}

// NewDraftCampaign returns an empty draft whose lists encode as [] rather than null.
func NewDraftCampaign() DraftCampaign {
	return DraftCampaign{
		Channels:       []Channel{},
		TargetAudience: []TargetAudience{},
	}
}

// HasChannel reports whether the draft already carries a channel with that name.
func (d DraftCampaign) HasChannel(name string) bool {
	for _, c := range d.Channels {
		if c.Name == name {
			return true
		}
	}
	return false
}
