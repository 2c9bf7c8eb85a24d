package scope

import (
	"context"

	"crimedesk/core/store"
)

// Resolver maps an identity to the set of stations it may see.
// Resolution happens per request; nothing is cached.
type Resolver struct {
	users    store.UsersStore
	stations store.StationsStore
}

func NewResolver(users store.UsersStore, stations store.StationsStore) *Resolver {
	return &Resolver{users: users, stations: stations}
}

// Resolve returns the station scope for the identity:
// DCP sees everything, an ACP sees the stations assigned to them, and
// station-bound roles see their own station. A station-bound user with
// no station gets an empty scope, which matches zero rows rather than
// erroring.
func (r *Resolver) Resolve(ctx context.Context, id Identity) (store.StationScope, error) {
	switch {
	case id.Role == RoleDCP:
		return store.ScopeAll(), nil
	case id.Role == RoleACP:
		ids, err := r.stations.ListStationIDsByACP(ctx, id.UserID)
		if err != nil {
			return store.StationScope{}, err
		}
		return store.ScopeStations(ids...), nil
	case StationBound(id.Role):
		user, err := r.users.GetUser(ctx, id.UserID)
		if err != nil {
			return store.StationScope{}, err
		}
		if user == nil || user.StationID == nil {
			return store.ScopeStations(), nil
		}
		return store.ScopeStations(*user.StationID), nil
	default:
		return store.ScopeStations(), nil
	}
}
