package routing

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/natevvv/grid-astar/pkg/grid"
	"github.com/natevvv/grid-astar/pkg/search"
)

// feature kinds, stored in the "kind" property
const (
	FeatureStart  = "start"
	FeatureGoal   = "goal"
	FeatureOpen   = "open"
	FeatureClosed = "closed"
	FeaturePath   = "path"
)

// GetFeatureCollection exports the search space and the current path of a session as GeoJSON.
// Cell coordinates are used as planar x/y.
func (r *Router) GetFeatureCollection(id string) (*geojson.FeatureCollection, error) {
	s, err := r.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := snapshotOf(s)
	if err != nil {
		return nil, err
	}
	route, err := routeOf(s.search)
	if err != nil {
		return nil, err
	}
	return FeatureCollection(snapshot, route), nil
}

func FeatureCollection(snapshot Snapshot, route Route) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	fc.Append(endpointFeature(FeatureStart, snapshot.Start))
	fc.Append(endpointFeature(FeatureGoal, snapshot.Goal))
	for _, n := range snapshot.Closed {
		fc.Append(nodeFeature(FeatureClosed, n))
	}
	for _, n := range snapshot.Open {
		fc.Append(nodeFeature(FeatureOpen, n))
	}

	line := make(orb.LineString, 0, len(route.Waypoints))
	for _, w := range route.Waypoints {
		line = append(line, w.Point())
	}
	path := geojson.NewFeature(line)
	path.Properties["kind"] = FeaturePath
	path.Properties["length"] = route.Length
	path.Properties["complete"] = route.Exists
	path.Properties["state"] = snapshot.State.String()
	fc.Append(path)

	return fc
}

func endpointFeature(kind string, l grid.Location) *geojson.Feature {
	f := geojson.NewFeature(l.Point())
	f.Properties["kind"] = kind
	return f
}

func nodeFeature(kind string, n search.NodeState) *geojson.Feature {
	f := geojson.NewFeature(n.Location.Point())
	f.Properties["kind"] = kind
	f.Properties["g"] = n.G
	f.Properties["h"] = n.H
	f.Properties["f"] = n.F
	return f
}
