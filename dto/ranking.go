package dto

// ==================== RANKING DTOs ====================

type RankedUser struct {
	ID          string `json:"id"`
	NickName    string `json:"nickName" example:"py_learner"`
	DisplayName string `json:"displayName,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	XPMonth     int    `json:"xpMonth" example:"1340"`
	Rank        int    `json:"rank" example:"4"`
	League      string `json:"league" example:"Gold"`
	Grade       string `json:"grade,omitempty" example:"B+"`
}

type RankingResponse struct {
	Champions []RankedUser `json:"champions"`
	Users     []RankedUser `json:"users"`
}
