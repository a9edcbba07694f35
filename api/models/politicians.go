package models

import "github.com/Kalyan-pallati/e-voting/storage"

type PoliticianCreateRequest struct {
	Name  string `json:"name"`
	Party string `json:"party"`
}

type PoliticianResponse struct {
	Name  string `json:"name"`
	Party string `json:"party"`
}

func TransformPoliticianFromStorage(p *storage.Politician) PoliticianResponse {
	return PoliticianResponse{
		Name:  p.Name,
		Party: p.Party,
	}
}
