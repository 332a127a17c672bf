package httpadapter

import (
	"context"
	"log/slog"

	"blockvote/contexts/governance/voting-ledger/application/commands"
	"blockvote/contexts/governance/voting-ledger/application/queries"
	"blockvote/contexts/governance/voting-ledger/domain/entities"
	"blockvote/contexts/governance/voting-ledger/ports"
	httptransport "blockvote/contexts/governance/voting-ledger/transport/http"
)

type Handler struct {
	Ledger          commands.LedgerUseCase
	Elections       commands.ElectionUseCase
	Votes           commands.VoteUseCase
	LedgerQueries   queries.LedgerUseCase
	ElectionQueries queries.ElectionUseCase
	EventQueries    queries.EventUseCase
	Logger          *slog.Logger
}

func (h Handler) RegisterVoterHandler(
	ctx context.Context,
	actor string,
	req httptransport.RegisterVoterRequest,
) (httptransport.AccountResponse, error) {
	amount, err := entities.ParseAmount(req.Amount)
	if err != nil {
		return httptransport.AccountResponse{}, err
	}
	account, err := h.Ledger.RegisterVoter(ctx, commands.RegisterVoterCommand{
		Actor:   actor,
		Address: req.Address,
		Amount:  amount,
	})
	if err != nil {
		return httptransport.AccountResponse{}, err
	}
	return mapAccount(account.Address, account.Balance, account.Registered), nil
}

func (h Handler) BatchRegisterVotersHandler(
	ctx context.Context,
	actor string,
	req httptransport.BatchRegisterVotersRequest,
) (httptransport.RegisterVotersResponse, error) {
	amount, err := entities.ParseAmount(req.Amount)
	if err != nil {
		return httptransport.RegisterVotersResponse{}, err
	}
	accounts, err := h.Ledger.BatchRegisterVoters(ctx, commands.BatchRegisterVotersCommand{
		Actor:     actor,
		Addresses: req.Addresses,
		Amount:    amount,
	})
	if err != nil {
		return httptransport.RegisterVotersResponse{}, err
	}
	items := make([]httptransport.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		items = append(items, mapAccount(account.Address, account.Balance, account.Registered))
	}
	return httptransport.RegisterVotersResponse{Items: items}, nil
}

func (h Handler) ApproveHandler(
	ctx context.Context,
	actor string,
	req httptransport.ApproveRequest,
) (httptransport.AllowanceResponse, error) {
	amount, err := entities.ParseAmount(req.Amount)
	if err != nil {
		return httptransport.AllowanceResponse{}, err
	}
	allowance, err := h.Ledger.Approve(ctx, commands.ApproveCommand{
		Actor:   actor,
		Spender: req.Spender,
		Amount:  amount,
	})
	if err != nil {
		return httptransport.AllowanceResponse{}, err
	}
	return httptransport.AllowanceResponse{
		Owner:   allowance.Owner,
		Spender: allowance.Spender,
		Amount:  allowance.Amount.String(),
	}, nil
}

func (h Handler) TransferHandler(
	ctx context.Context,
	actor string,
	req httptransport.TransferRequest,
) (httptransport.TransferResponse, error) {
	amount, err := entities.ParseAmount(req.Amount)
	if err != nil {
		return httptransport.TransferResponse{}, err
	}
	if err := h.Ledger.Transfer(ctx, commands.TransferCommand{
		Actor:  actor,
		To:     req.To,
		Amount: amount,
	}); err != nil {
		return httptransport.TransferResponse{}, err
	}
	return httptransport.TransferResponse{From: actor, To: req.To, Amount: amount.String()}, nil
}

func (h Handler) TransferFromHandler(
	ctx context.Context,
	actor string,
	req httptransport.TransferFromRequest,
) (httptransport.TransferResponse, error) {
	amount, err := entities.ParseAmount(req.Amount)
	if err != nil {
		return httptransport.TransferResponse{}, err
	}
	if err := h.Ledger.TransferFrom(ctx, commands.TransferFromCommand{
		Actor:  actor,
		Owner:  req.Owner,
		To:     req.To,
		Amount: amount,
	}); err != nil {
		return httptransport.TransferResponse{}, err
	}
	return httptransport.TransferResponse{From: req.Owner, To: req.To, Amount: amount.String()}, nil
}

func (h Handler) BurnHandler(
	ctx context.Context,
	actor string,
	req httptransport.BurnRequest,
) (httptransport.AccountResponse, error) {
	amount, err := entities.ParseAmount(req.Amount)
	if err != nil {
		return httptransport.AccountResponse{}, err
	}
	if err := h.Ledger.Burn(ctx, commands.BurnCommand{Actor: actor, Amount: amount}); err != nil {
		return httptransport.AccountResponse{}, err
	}
	return h.AccountHandler(ctx, actor)
}

func (h Handler) LedgerHandler(ctx context.Context) (httptransport.LedgerResponse, error) {
	summary, err := h.LedgerQueries.Summary(ctx)
	if err != nil {
		return httptransport.LedgerResponse{}, err
	}
	return httptransport.LedgerResponse{
		TokenName:     summary.TokenName,
		TokenSymbol:   summary.TokenSymbol,
		Administrator: summary.Administrator,
		Custody:       summary.Custody,
		TokensPerVote: summary.TokensPerVote.String(),
		TotalSupply:   summary.TotalSupply.String(),
		VoterCount:    summary.VoterCount,
		ElectionCount: summary.ElectionCount,
	}, nil
}

func (h Handler) AccountHandler(ctx context.Context, address string) (httptransport.AccountResponse, error) {
	view, err := h.LedgerQueries.Account(ctx, address)
	if err != nil {
		return httptransport.AccountResponse{}, err
	}
	return mapAccount(view.Address, view.Balance, view.Registered), nil
}

func (h Handler) AllowanceHandler(ctx context.Context, owner string, spender string) (httptransport.AllowanceResponse, error) {
	amount, err := h.LedgerQueries.Allowance(ctx, owner, spender)
	if err != nil {
		return httptransport.AllowanceResponse{}, err
	}
	return httptransport.AllowanceResponse{Owner: owner, Spender: spender, Amount: amount.String()}, nil
}

func (h Handler) CreateElectionHandler(
	ctx context.Context,
	actor string,
	req httptransport.CreateElectionRequest,
) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.CreateElection(ctx, commands.CreateElectionCommand{
		Actor:       actor,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election, nil), nil
}

func (h Handler) ListElectionsHandler(ctx context.Context) (httptransport.ElectionListResponse, error) {
	details, err := h.ElectionQueries.ListElections(ctx)
	if err != nil {
		return httptransport.ElectionListResponse{}, err
	}
	items := make([]httptransport.ElectionResponse, 0, len(details))
	for _, detail := range details {
		items = append(items, mapElection(detail.Election, detail.Candidates))
	}
	return httptransport.ElectionListResponse{Count: uint64(len(items)), Items: items}, nil
}

func (h Handler) GetElectionHandler(ctx context.Context, electionID uint64) (httptransport.ElectionResponse, error) {
	detail, err := h.ElectionQueries.GetElection(ctx, electionID)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(detail.Election, detail.Candidates), nil
}

func (h Handler) AddCandidateHandler(
	ctx context.Context,
	actor string,
	electionID uint64,
	req httptransport.AddCandidateRequest,
) (httptransport.CandidateResponse, error) {
	candidate, err := h.Elections.AddCandidate(ctx, commands.AddCandidateCommand{
		Actor:       actor,
		ElectionID:  electionID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return mapCandidate(candidate), nil
}

func (h Handler) GetCandidateHandler(ctx context.Context, electionID uint64, candidateID uint64) (httptransport.CandidateResponse, error) {
	candidate, err := h.ElectionQueries.GetCandidate(ctx, electionID, candidateID)
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return mapCandidate(candidate), nil
}

func (h Handler) StartElectionHandler(ctx context.Context, actor string, electionID uint64) (httptransport.ElectionResponse, error) {
	if _, err := h.Elections.StartElection(ctx, commands.TransitionElectionCommand{
		Actor:      actor,
		ElectionID: electionID,
	}); err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return h.GetElectionHandler(ctx, electionID)
}

func (h Handler) EndElectionHandler(ctx context.Context, actor string, electionID uint64) (httptransport.EndElectionResponse, error) {
	result, err := h.Elections.EndElection(ctx, commands.TransitionElectionCommand{
		Actor:      actor,
		ElectionID: electionID,
	})
	if err != nil {
		return httptransport.EndElectionResponse{}, err
	}
	election, err := h.GetElectionHandler(ctx, electionID)
	if err != nil {
		return httptransport.EndElectionResponse{}, err
	}
	return httptransport.EndElectionResponse{
		Election: election,
		Winner:   mapCandidate(result.Winner),
	}, nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	actor string,
	electionID uint64,
	req httptransport.CastVoteRequest,
) (httptransport.VoteRecordResponse, error) {
	amount, err := entities.ParseAmount(req.Amount)
	if err != nil {
		return httptransport.VoteRecordResponse{}, err
	}
	record, err := h.Votes.CastVote(ctx, commands.CastVoteCommand{
		Actor:       actor,
		ElectionID:  electionID,
		CandidateID: req.CandidateID,
		Amount:      amount,
	})
	if err != nil {
		return httptransport.VoteRecordResponse{}, err
	}
	return mapVoteRecord(record), nil
}

func (h Handler) VoterStatusHandler(ctx context.Context, electionID uint64, voter string) (httptransport.VoterStatusResponse, error) {
	record, voted, err := h.ElectionQueries.VoteRecord(ctx, electionID, voter)
	if err != nil {
		return httptransport.VoterStatusResponse{}, err
	}
	resp := httptransport.VoterStatusResponse{
		ElectionID: electionID,
		Voter:      voter,
		HasVoted:   voted,
	}
	if voted {
		mapped := mapVoteRecord(record)
		resp.Voter = record.Voter
		resp.Vote = &mapped
	}
	return resp, nil
}

func (h Handler) WinnerHandler(ctx context.Context, electionID uint64) (httptransport.CandidateResponse, error) {
	winner, err := h.ElectionQueries.GetWinner(ctx, electionID)
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return mapCandidate(winner), nil
}

func (h Handler) EventsHandler(ctx context.Context, afterSequence uint64, limit int) (httptransport.EventListResponse, error) {
	events, err := h.EventQueries.ListEvents(ctx, afterSequence, limit)
	if err != nil {
		return httptransport.EventListResponse{}, err
	}
	resp := httptransport.EventListResponse{
		Items:        make([]httptransport.EventResponse, 0, len(events)),
		NextSequence: afterSequence,
	}
	for _, event := range events {
		resp.Items = append(resp.Items, MapEvent(event))
		resp.NextSequence = event.Sequence
	}
	return resp, nil
}

// MapEvent converts an outbox envelope into its public wire shape.
func MapEvent(event ports.EventEnvelope) httptransport.EventResponse {
	return httptransport.EventResponse{
		EventID:      event.EventID,
		EventType:    event.EventType,
		Sequence:     event.Sequence,
		OccurredAt:   event.OccurredAt,
		PartitionKey: event.PartitionKey,
		Data:         event.Data,
	}
}

func mapAccount(address string, balance entities.Amount, registered bool) httptransport.AccountResponse {
	return httptransport.AccountResponse{
		Address:    address,
		Balance:    balance.String(),
		Registered: registered,
	}
}

func mapElection(election entities.Election, candidates []entities.Candidate) httptransport.ElectionResponse {
	items := make([]httptransport.CandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		items = append(items, mapCandidate(candidate))
	}
	return httptransport.ElectionResponse{
		ElectionID:      election.ElectionID,
		Title:           election.Title,
		Description:     election.Description,
		StartTime:       election.StartTime,
		EndTime:         election.EndTime,
		Status:          string(election.Status),
		CandidateCount:  election.CandidateCount,
		TotalVotesCast:  election.TotalVotesCast,
		TotalTokensUsed: election.TotalTokensUsed.String(),
		StartedAt:       election.StartedAt,
		EndedAt:         election.EndedAt,
		Candidates:      items,
	}
}

func mapCandidate(candidate entities.Candidate) httptransport.CandidateResponse {
	return httptransport.CandidateResponse{
		ElectionID:  candidate.ElectionID,
		CandidateID: candidate.CandidateID,
		Name:        candidate.Name,
		Description: candidate.Description,
		VoteCount:   candidate.VoteCount.String(),
	}
}

func mapVoteRecord(record entities.VoteRecord) httptransport.VoteRecordResponse {
	return httptransport.VoteRecordResponse{
		ElectionID:  record.ElectionID,
		Voter:       record.Voter,
		CandidateID: record.CandidateID,
		Tokens:      record.Tokens.String(),
		Weight:      record.Weight.String(),
		CastAt:      record.CastAt,
	}
}
