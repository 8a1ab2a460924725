package dashboard

import (
	"cmp"
	"slices"
)

// EnvironmentGroup is one environment with its services in configuration order.
type EnvironmentGroup struct {
	Name     string            `json:"name"`
	Services []ServiceEndpoint `json:"services"`
}

// Environments returns the distinct environments of the services in display
// order. See OrderEnvironments.
func (c Configuration) Environments() []string {
	return OrderEnvironments(c.Services, c.EnvironmentOrder)
}

// Groups returns the services grouped by environment, groups in Environments order.
func (c Configuration) Groups() []EnvironmentGroup {
	envs := c.Environments()

	index := make(map[string]int, len(envs))
	groups := make([]EnvironmentGroup, len(envs))
	for i, env := range envs {
		index[env] = i
		groups[i] = EnvironmentGroup{Name: env, Services: []ServiceEndpoint{}}
	}

	for _, s := range c.Services {
		i := index[s.Environment]
		groups[i].Services = append(groups[i].Services, s)
	}

	return groups
}

// OrderEnvironments returns each environment used by services exactly once.
// Environments listed in order come first, by their first position in order;
// the rest follow in ordinal string order. With an empty order everything is
// sorted ordinally. Names in order that no service uses are dropped.
// Comparison is exact: "dev" and "DEV" are different environments.
func OrderEnvironments(services []ServiceEndpoint, order []string) []string {
	seen := make(map[string]struct{}, len(services))
	distinct := make([]string, 0, len(services))
	for _, s := range services {
		if _, ok := seen[s.Environment]; ok {
			continue
		}
		seen[s.Environment] = struct{}{}
		distinct = append(distinct, s.Environment)
	}

	if len(order) == 0 {
		slices.Sort(distinct)
		return distinct
	}

	position := make(map[string]int, len(order))
	for i, env := range order {
		if _, ok := position[env]; !ok {
			position[env] = i
		}
	}

	ordered := make([]string, 0, len(distinct))
	remaining := make([]string, 0, len(distinct))
	for _, env := range distinct {
		if _, ok := position[env]; ok {
			ordered = append(ordered, env)
		} else {
			remaining = append(remaining, env)
		}
	}

	slices.SortFunc(ordered, func(a, b string) int {
		return cmp.Compare(position[a], position[b])
	})
	slices.Sort(remaining)

	return append(ordered, remaining...)
}
