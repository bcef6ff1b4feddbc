// SPDX-License-Identifier: MIT

package openapi_server

import "github.com/natevvv/grid-astar/pkg/search"

type SearchResult struct {
	Id     string   `json:"id"`
	Start  Location `json:"start"`
	Goal   Location `json:"goal"`
	Policy string   `json:"policy"`
	State  string   `json:"state"`
}

type SearchSnapshot struct {
	SearchResult
	EndNode search.NodeState   `json:"endNode"`
	Next    *search.NodeState  `json:"next,omitempty"`
	Open    []search.NodeState `json:"open"`
	Closed  []search.NodeState `json:"closed"`
	Kpis    search.KPIs        `json:"kpis"`
}

type StepResults struct {
	Steps []search.StepResult `json:"steps"`
	State string              `json:"state"`
}

type Path struct {
	Length    float64    `json:"length"`
	Complete  bool       `json:"complete"`
	Waypoints []Location `json:"waypoints"`
}

type Grid struct {
	Width   int        `json:"width"`
	Depth   int        `json:"depth"`
	Border  int        `json:"border"`
	Offsets []Location `json:"offsets"`
	Blocked []Location `json:"blocked"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
