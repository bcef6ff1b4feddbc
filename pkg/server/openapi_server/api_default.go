// SPDX-License-Identifier: MIT

package openapi_server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// DefaultApiController binds http requests to an api service and writes the service results to the http response
type DefaultApiController struct {
	service      DefaultApiServicer
	errorHandler ErrorHandler
}

var _ DefaultApiRouter = (*DefaultApiController)(nil)

// DefaultApiOption for how the controller is set up.
type DefaultApiOption func(*DefaultApiController)

// WithDefaultApiErrorHandler inject ErrorHandler into controller
func WithDefaultApiErrorHandler(h ErrorHandler) DefaultApiOption {
	return func(c *DefaultApiController) {
		c.errorHandler = h
	}
}

// NewDefaultApiController creates a default api controller
func NewDefaultApiController(s DefaultApiServicer, opts ...DefaultApiOption) Router {
	controller := &DefaultApiController{
		service:      s,
		errorHandler: DefaultErrorHandler,
	}

	for _, opt := range opts {
		opt(controller)
	}

	return controller
}

// Routes returns all of the api route for the DefaultApiController
func (c *DefaultApiController) Routes() Routes {
	return Routes{
		{
			"GetGrid",
			strings.ToUpper("Get"),
			"/grid",
			c.GetGrid,
		},
		{
			"ListSearches",
			strings.ToUpper("Get"),
			"/searches",
			c.ListSearches,
		},
		{
			"CreateSearch",
			strings.ToUpper("Post"),
			"/searches",
			c.CreateSearch,
		},
		{
			"GetSearch",
			strings.ToUpper("Get"),
			"/searches/{searchId}",
			c.GetSearch,
		},
		{
			"DeleteSearch",
			strings.ToUpper("Delete"),
			"/searches/{searchId}",
			c.DeleteSearch,
		},
		{
			"StepSearch",
			strings.ToUpper("Post"),
			"/searches/{searchId}/steps",
			c.StepSearch,
		},
		{
			"GetTrace",
			strings.ToUpper("Get"),
			"/searches/{searchId}/steps",
			c.GetTrace,
		},
		{
			"GetPath",
			strings.ToUpper("Get"),
			"/searches/{searchId}/path",
			c.GetPath,
		},
		{
			"GetGeoJson",
			strings.ToUpper("Get"),
			"/searches/{searchId}/geojson",
			c.GetGeoJson,
		},
	}
}

// GetGrid - Get the maze
func (c *DefaultApiController) GetGrid(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.GetGrid(r.Context())
	c.writeResult(w, r, "GET", result, err)
}

// ListSearches - List all open search sessions
func (c *DefaultApiController) ListSearches(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.ListSearches(r.Context())
	c.writeResult(w, r, "GET", result, err)
}

// CreateSearch - Start a new search session
func (c *DefaultApiController) CreateSearch(w http.ResponseWriter, r *http.Request) {
	searchRequestParam := SearchRequest{}
	if err := decodeBody(r, &searchRequestParam); err != nil {
		c.errorHandler(w, r, &ParsingError{Err: err}, nil)
		return
	}
	result, err := c.service.CreateSearch(r.Context(), searchRequestParam)
	c.writeResult(w, r, "POST", result, err)
}

// GetSearch - Get a snapshot of a search session
func (c *DefaultApiController) GetSearch(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	result, err := c.service.GetSearch(r.Context(), params["searchId"])
	c.writeResult(w, r, "GET", result, err)
}

// DeleteSearch - Drop a search session
func (c *DefaultApiController) DeleteSearch(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	result, err := c.service.DeleteSearch(r.Context(), params["searchId"])
	c.writeResult(w, r, "DELETE", result, err)
}

// StepSearch - Advance a search session
func (c *DefaultApiController) StepSearch(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	stepRequestParam := StepRequest{}
	if err := decodeBody(r, &stepRequestParam); err != nil {
		c.errorHandler(w, r, &ParsingError{Err: err}, nil)
		return
	}
	if err := AssertStepRequestRequired(stepRequestParam); err != nil {
		c.errorHandler(w, r, err, nil)
		return
	}
	result, err := c.service.StepSearch(r.Context(), params["searchId"], stepRequestParam)
	c.writeResult(w, r, "POST", result, err)
}

// GetTrace - Get all steps of a search session
func (c *DefaultApiController) GetTrace(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	result, err := c.service.GetTrace(r.Context(), params["searchId"])
	c.writeResult(w, r, "GET", result, err)
}

// GetPath - Get the (partial) path of a search session
func (c *DefaultApiController) GetPath(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	result, err := c.service.GetPath(r.Context(), params["searchId"])
	c.writeResult(w, r, "GET", result, err)
}

// GetGeoJson - Export the search space of a search session
func (c *DefaultApiController) GetGeoJson(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	result, err := c.service.GetGeoJson(r.Context(), params["searchId"])
	c.writeResult(w, r, "GET", result, err)
}

func (c *DefaultApiController) writeResult(w http.ResponseWriter, r *http.Request, method string, result ImplResponse, err error) {
	// If an error occurred, encode the error with the status code
	if err != nil {
		c.errorHandler(w, r, err, &result)
		return
	}
	// If no error, encode the body and the result code
	setCorsHeaders(w, method)
	EncodeJSONResponse(result.Body, &result.Code, w)
}

// decodeBody decodes an optional json body. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	d := json.NewDecoder(r.Body)
	d.DisallowUnknownFields()
	if err := d.Decode(v); err != nil && err != io.EOF {
		return err
	}
	return nil
}
