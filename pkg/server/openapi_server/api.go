// SPDX-License-Identifier: MIT

package openapi_server

import (
	"context"
	"net/http"
)

// DefaultApiRouter defines the required methods for binding the api requests to a responses for the DefaultApi
// The DefaultApiRouter implementation should parse necessary information from the http request,
// pass the data to a DefaultApiServicer to perform the required actions, then write the service results to the http response.
type DefaultApiRouter interface {
	GetGrid(http.ResponseWriter, *http.Request)
	ListSearches(http.ResponseWriter, *http.Request)
	CreateSearch(http.ResponseWriter, *http.Request)
	GetSearch(http.ResponseWriter, *http.Request)
	DeleteSearch(http.ResponseWriter, *http.Request)
	StepSearch(http.ResponseWriter, *http.Request)
	GetPath(http.ResponseWriter, *http.Request)
	GetTrace(http.ResponseWriter, *http.Request)
	GetGeoJson(http.ResponseWriter, *http.Request)
}

// DefaultApiServicer defines the api actions for the DefaultApi service
// This interface intended to stay up to date with the openapi yaml used to generate it,
// while the service implementation can ignored with the .openapi-generator-ignore file
// and updated with the logic required for the API.
type DefaultApiServicer interface {
	GetGrid(context.Context) (ImplResponse, error)
	ListSearches(context.Context) (ImplResponse, error)
	CreateSearch(context.Context, SearchRequest) (ImplResponse, error)
	GetSearch(context.Context, string) (ImplResponse, error)
	DeleteSearch(context.Context, string) (ImplResponse, error)
	StepSearch(context.Context, string, StepRequest) (ImplResponse, error)
	GetPath(context.Context, string) (ImplResponse, error)
	GetTrace(context.Context, string) (ImplResponse, error)
	GetGeoJson(context.Context, string) (ImplResponse, error)
}
