package api

import "prremind/models"

// DomainUserToAPIUser converts a domain User model to an API UserModel
func DomainUserToAPIUser(domainUser *models.User) *UserModel {
	if domainUser == nil {
		return nil
	}

	return &UserModel{
		ID:           domainUser.ID,
		Name:         domainUser.Name,
		Email:        domainUser.Email,
		ProfileImage: domainUser.ProfileImage,
		CreatedAt:    domainUser.CreatedAt,
		UpdatedAt:    domainUser.UpdatedAt,
	}
}

// DomainSlackConnectionToAPISlackConnection converts a domain SlackConnection to its API model.
// The access token is deliberately not part of the API model.
func DomainSlackConnectionToAPISlackConnection(conn *models.SlackConnection) *SlackConnectionModel {
	if conn == nil {
		return nil
	}

	return &SlackConnectionModel{
		ID:          conn.ID,
		UserID:      conn.UserID,
		SlackUserID: conn.SlackUserID,
		SlackTeamID: conn.SlackTeamID,
		TeamName:    conn.TeamName,
		CreatedAt:   conn.CreatedAt,
		UpdatedAt:   conn.UpdatedAt,
	}
}
