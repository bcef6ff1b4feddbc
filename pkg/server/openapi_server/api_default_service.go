// SPDX-License-Identifier: MIT

package openapi_server

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/natevvv/grid-astar/pkg/routing"
	"github.com/natevvv/grid-astar/pkg/search"
)

// DefaultApiService is a service that implements the logic for the DefaultApiServicer
// This service should implement the business logic for every endpoint for the DefaultApi API.
// Include any external packages or services that will be required by this service.
type DefaultApiService struct {
	router        *routing.Router
	defaultPolicy search.UpdatePolicy
}

// NewDefaultApiService creates a default api service
func NewDefaultApiService(router *routing.Router, defaultPolicy search.UpdatePolicy) DefaultApiServicer {
	return &DefaultApiService{
		router:        router,
		defaultPolicy: defaultPolicy,
	}
}

// GetGrid - Get the maze
func (s *DefaultApiService) GetGrid(ctx context.Context) (ImplResponse, error) {
	g := s.router.Grid()
	result := Grid{
		Width:   g.Width(),
		Depth:   g.Depth(),
		Border:  g.Border(),
		Offsets: makeLocations(g.NeighborOffsets()),
		Blocked: makeLocations(g.BlockedLocations()),
	}
	return Response(http.StatusOK, result), nil
}

// ListSearches - List all open search sessions
func (s *DefaultApiService) ListSearches(ctx context.Context) (ImplResponse, error) {
	ids := s.router.SessionIDs()
	sort.Strings(ids)
	result := make([]SearchResult, 0, len(ids))
	for _, id := range ids {
		snapshot, err := s.router.GetSnapshot(id)
		if errors.Is(err, routing.ErrSessionNotFound) {
			// deleted in the meantime
			continue
		} else if err != nil {
			return Response(statusCode(err), nil), err
		}
		result = append(result, makeSearchResult(snapshot))
	}
	return Response(http.StatusOK, result), nil
}

// CreateSearch - Start a new search session
func (s *DefaultApiService) CreateSearch(ctx context.Context, searchRequest SearchRequest) (ImplResponse, error) {
	policy := s.defaultPolicy
	if searchRequest.Policy != "" {
		p, err := search.ParsePolicy(searchRequest.Policy)
		if err != nil {
			return Response(statusCode(err), nil), err
		}
		policy = p
	}

	config := routing.SearchConfig{Policy: policy}
	if searchRequest.Start != nil {
		start := searchRequest.Start.toGrid()
		config.Start = &start
	}
	if searchRequest.Goal != nil {
		goal := searchRequest.Goal.toGrid()
		config.Goal = &goal
	}

	id, err := s.router.StartSearch(config)
	if err != nil {
		return Response(statusCode(err), nil), err
	}
	snapshot, err := s.router.GetSnapshot(id)
	if err != nil {
		return Response(statusCode(err), nil), err
	}
	return Response(http.StatusCreated, makeSearchResult(snapshot)), nil
}

// GetSearch - Get a snapshot of a search session
func (s *DefaultApiService) GetSearch(ctx context.Context, searchId string) (ImplResponse, error) {
	snapshot, err := s.router.GetSnapshot(searchId)
	if err != nil {
		return Response(statusCode(err), nil), err
	}
	result := SearchSnapshot{
		SearchResult: makeSearchResult(snapshot),
		EndNode:      snapshot.EndNode,
		Next:         snapshot.Next,
		Open:         snapshot.Open,
		Closed:       snapshot.Closed,
		Kpis:         snapshot.KPIs,
	}
	return Response(http.StatusOK, result), nil
}

// DeleteSearch - Drop a search session
func (s *DefaultApiService) DeleteSearch(ctx context.Context, searchId string) (ImplResponse, error) {
	if err := s.router.DeleteSearch(searchId); err != nil {
		return Response(statusCode(err), nil), err
	}
	return Response(http.StatusOK, searchId), nil
}

// StepSearch - Advance a search session
func (s *DefaultApiService) StepSearch(ctx context.Context, searchId string, stepRequest StepRequest) (ImplResponse, error) {
	steps, err := s.router.Step(searchId, stepRequest.Count)
	if err != nil {
		return Response(statusCode(err), nil), err
	}
	result := StepResults{Steps: steps}
	if len(steps) > 0 {
		result.State = steps[len(steps)-1].State.String()
	}
	return Response(http.StatusOK, result), nil
}

// GetTrace - Get all steps of a search session
func (s *DefaultApiService) GetTrace(ctx context.Context, searchId string) (ImplResponse, error) {
	steps, err := s.router.GetTrace(searchId)
	if err != nil {
		return Response(statusCode(err), nil), err
	}
	snapshot, err := s.router.GetSnapshot(searchId)
	if err != nil {
		return Response(statusCode(err), nil), err
	}
	return Response(http.StatusOK, StepResults{Steps: steps, State: snapshot.State.String()}), nil
}

// GetPath - Get the (partial) path of a search session
func (s *DefaultApiService) GetPath(ctx context.Context, searchId string) (ImplResponse, error) {
	route, err := s.router.ComputeRoute(searchId)
	if err != nil {
		return Response(statusCode(err), nil), err
	}
	result := Path{
		Length:    route.Length,
		Complete:  route.Exists,
		Waypoints: makeLocations(route.Waypoints),
	}
	return Response(http.StatusOK, result), nil
}

// GetGeoJson - Export the search space of a search session
func (s *DefaultApiService) GetGeoJson(ctx context.Context, searchId string) (ImplResponse, error) {
	fc, err := s.router.GetFeatureCollection(searchId)
	if err != nil {
		return Response(statusCode(err), nil), err
	}
	return Response(http.StatusOK, fc), nil
}

func makeSearchResult(snapshot routing.Snapshot) SearchResult {
	return SearchResult{
		Id:     snapshot.ID,
		Start:  makeLocation(snapshot.Start),
		Goal:   makeLocation(snapshot.Goal),
		Policy: snapshot.Policy.String(),
		State:  snapshot.State.String(),
	}
}
