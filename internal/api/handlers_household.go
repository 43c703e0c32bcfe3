package api

import (
	"net/http"

	"budgeter/internal/middleware"
)

type householdRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type inviteRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleCreateHousehold(w http.ResponseWriter, r *http.Request) {
	var req householdRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	household, err := s.households.Create(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHouseholdView(household))
}

func (s *Server) handleListHouseholds(w http.ResponseWriter, r *http.Request) {
	households, err := s.households.ListMine(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHouseholdViews(households))
}

func (s *Server) handleListInvitations(w http.ResponseWriter, r *http.Request) {
	households, err := s.households.ListInvited(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHouseholdViews(households))
}

func (s *Server) handleGetHousehold(w http.ResponseWriter, r *http.Request) {
	household, err := s.households.Get(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHouseholdView(household))
}

func (s *Server) handleEditHousehold(w http.ResponseWriter, r *http.Request) {
	var req householdRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	household, err := s.households.Edit(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHouseholdView(household))
}

func (s *Server) handleDeleteHousehold(w http.ResponseWriter, r *http.Request) {
	if err := s.households.Delete(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.households.ListMembers(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberViews(members))
}

func (s *Server) handleInvite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	member, err := s.households.Invite(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, memberView{ID: member.ID, Email: member.Email, DisplayName: member.DisplayName})
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	members, err := s.households.Join(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberViews(members))
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	if err := s.households.Leave(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
