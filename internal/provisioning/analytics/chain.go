package analytics

import (
	"strings"

	"github.com/imamik/iotflow/internal/provisioning"
)

// Activity names used in the pipeline chain.
const (
	SourceActivity           = "DataSource"
	RemoveAttributesActivity = "RemoveAttributes"
	SinkActivity             = "DataStore"
)

// BuildActivityChain returns the three activities moving messages from
// channel to datastore with attrs removed on the way.
func BuildActivityChain(channel, datastore string, attrs []string) []provisioning.Activity {
	return []provisioning.Activity{
		{
			Kind:        provisioning.ActivityChannel,
			Name:        SourceActivity,
			ChannelName: channel,
			Next:        RemoveAttributesActivity,
		},
		{
			Kind:       provisioning.ActivityRemoveAttributes,
			Name:       RemoveAttributesActivity,
			Attributes: append([]string(nil), attrs...),
			Next:       SinkActivity,
		},
		{
			Kind:          provisioning.ActivityDatastore,
			Name:          SinkActivity,
			DatastoreName: datastore,
		},
	}
}

// ValidateActivityChain checks that activities form one linear chain that
// starts at a channel and ends at a datastore, with every activity reached
// exactly once.
func ValidateActivityChain(activities []provisioning.Activity) error {
	if len(activities) < 2 {
		return provisioning.ConfigDefect("pipeline needs at least a channel and a datastore activity, got %d", len(activities))
	}

	byName := make(map[string]provisioning.Activity, len(activities))
	referenced := make(map[string]bool, len(activities))
	for _, a := range activities {
		if a.Name == "" {
			return provisioning.ConfigDefect("pipeline activity of kind %s has no name", a.Kind)
		}
		if _, dup := byName[a.Name]; dup {
			return provisioning.ConfigDefect("duplicate pipeline activity %q", a.Name)
		}
		byName[a.Name] = a
	}

	for _, a := range activities {
		if err := validateActivity(a); err != nil {
			return err
		}
		if a.Next == "" {
			continue
		}
		if _, ok := byName[a.Next]; !ok {
			return provisioning.ConfigDefect("activity %q names unknown next %q", a.Name, a.Next)
		}
		if referenced[a.Next] {
			return provisioning.ConfigDefect("activity %q is the next of more than one activity", a.Next)
		}
		referenced[a.Next] = true
	}

	first := activities[0]
	if first.Kind != provisioning.ActivityChannel {
		return provisioning.ConfigDefect("pipeline must start with a channel activity, got %s", first.Kind)
	}
	if referenced[first.Name] {
		return provisioning.ConfigDefect("pipeline source %q is the next of another activity", first.Name)
	}

	// Walk from the source; a linear chain visits every activity once.
	seen := make(map[string]bool, len(activities))
	current := first
	for {
		if seen[current.Name] {
			return provisioning.ConfigDefect("pipeline has a cycle at %q", current.Name)
		}
		seen[current.Name] = true
		if current.Next == "" {
			break
		}
		current = byName[current.Next]
	}

	if current.Kind != provisioning.ActivityDatastore {
		return provisioning.ConfigDefect("pipeline must end with a datastore activity, got %s %q", current.Kind, current.Name)
	}
	if len(seen) != len(activities) {
		for _, a := range activities {
			if !seen[a.Name] {
				return provisioning.ConfigDefect("pipeline activity %q is not reachable from %q", a.Name, first.Name)
			}
		}
	}
	return nil
}

func validateActivity(a provisioning.Activity) error {
	switch a.Kind {
	case provisioning.ActivityChannel:
		if a.ChannelName == "" {
			return provisioning.ConfigDefect("channel activity %q has no channel name", a.Name)
		}
	case provisioning.ActivityRemoveAttributes:
		if len(a.Attributes) == 0 {
			return provisioning.ConfigDefect("activity %q removes no attributes", a.Name)
		}
	case provisioning.ActivityDatastore:
		if a.DatastoreName == "" {
			return provisioning.ConfigDefect("datastore activity %q has no datastore name", a.Name)
		}
		if a.Next != "" {
			return provisioning.ConfigDefect("datastore activity %q must be last", a.Name)
		}
		return nil
	default:
		return provisioning.ConfigDefect("activity %q has unknown kind %q", a.Name, a.Kind)
	}
	if a.Next == "" {
		return provisioning.ConfigDefect("activity %q has no next activity", a.Name)
	}
	return nil
}

func chainSummary(activities []provisioning.Activity) string {
	names := make([]string, 0, len(activities))
	for _, a := range activities {
		names = append(names, a.Name)
	}
	return strings.Join(names, " -> ")
}
