package httpserver

import (
	"net/http"

	ledgerhttp "blockvote/contexts/governance/voting-ledger/transport/http"
)

func (s *Server) handleListElections(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.ListElectionsHandler(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetElection(w http.ResponseWriter, r *http.Request) {
	electionID, ok := pathUint(w, r, "election_id")
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.GetElectionHandler(r.Context(), electionID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	electionID, ok := pathUint(w, r, "election_id")
	if !ok {
		return
	}
	candidateID, ok := pathUint(w, r, "candidate_id")
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.GetCandidateHandler(r.Context(), electionID, candidateID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoterStatus(w http.ResponseWriter, r *http.Request) {
	electionID, ok := pathUint(w, r, "election_id")
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.VoterStatusHandler(r.Context(), electionID, r.PathValue("address"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWinner(w http.ResponseWriter, r *http.Request) {
	electionID, ok := pathUint(w, r, "election_id")
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.WinnerHandler(r.Context(), electionID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateElection(w http.ResponseWriter, r *http.Request, actor string) {
	var req ledgerhttp.CreateElectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.ledger.Handler.CreateElectionHandler(r.Context(), actor, req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleAddCandidate(w http.ResponseWriter, r *http.Request, actor string) {
	electionID, ok := pathUint(w, r, "election_id")
	if !ok {
		return
	}
	var req ledgerhttp.AddCandidateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.ledger.Handler.AddCandidateHandler(r.Context(), actor, electionID, req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleStartElection(w http.ResponseWriter, r *http.Request, actor string) {
	electionID, ok := pathUint(w, r, "election_id")
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.StartElectionHandler(r.Context(), actor, electionID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEndElection(w http.ResponseWriter, r *http.Request, actor string) {
	electionID, ok := pathUint(w, r, "election_id")
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.EndElectionHandler(r.Context(), actor, electionID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request, actor string) {
	electionID, ok := pathUint(w, r, "election_id")
	if !ok {
		return
	}
	var req ledgerhttp.CastVoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.ledger.Handler.CastVoteHandler(r.Context(), actor, electionID, req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}
