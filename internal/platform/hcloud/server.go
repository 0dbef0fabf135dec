package hcloud

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/cloudera/director-aws/internal/cloud"
	"github.com/cloudera/director-aws/internal/util/naming"
	"github.com/cloudera/director-aws/internal/util/retry"
	"github.com/cloudera/director-aws/internal/util/tags"
)

// OptLocation selects the Hetzner location (e.g. nbg1) via template options.
const OptLocation = "location"

// Launch creates one server from the spec and returns its numeric ID.
// When tags is non-nil they become the server's labels atomically in the
// create call.
func (c *Client) Launch(ctx context.Context, virtualID string, spec cloud.Spec, tagSet map[string]string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.LaunchTimeout)
	defer cancel()

	opts, err := c.buildCreateOpts(ctx, virtualID, spec, tagSet)
	if err != nil {
		return "", err
	}

	var result hcloud.ServerCreateResult
	err = retry.WithExponentialBackoff(ctx, func() error {
		res, _, err := c.client.Server.Create(ctx, opts)
		if err != nil {
			if isInvalidParameter(err) {
				return retry.Permanent(err)
			}
			return err
		}
		result = res
		return nil
	}, retry.WithMaxRetries(c.timeouts.RetryMaxAttempts), retry.WithInitialDelay(c.timeouts.RetryInitialDelay))

	if err != nil {
		return "", fmt.Errorf("failed to create server for %s: %w", virtualID, err)
	}

	if err := c.client.Action.WaitFor(ctx, result.Action); err != nil {
		return "", fmt.Errorf("failed to wait for server creation: %w", err)
	}

	return strconv.FormatInt(result.Server.ID, 10), nil
}

func (c *Client) buildCreateOpts(ctx context.Context, virtualID string, spec cloud.Spec, tagSet map[string]string) (hcloud.ServerCreateOpts, error) {
	serverType, _, err := c.client.ServerType.Get(ctx, spec.Type)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get server type: %w", err)
	}
	if serverType == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("server type not found: %s", spec.Type)
	}

	image, _, err := c.client.Image.GetForArchitecture(ctx, spec.Image, serverType.Architecture)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get image: %w", err)
	}
	if image == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("image not found: %s", spec.Image)
	}

	opts := hcloud.ServerCreateOpts{
		Name:       naming.Hostname(spec.NamePrefix, virtualID),
		ServerType: serverType,
		Image:      image,
		Labels:     tagSet,
		UserData:   spec.UserData,
	}

	if location := spec.Options[OptLocation]; location != "" {
		loc, _, err := c.client.Location.Get(ctx, location)
		if err != nil {
			return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get location: %w", err)
		}
		if loc == nil {
			return hcloud.ServerCreateOpts{}, fmt.Errorf("location not found: %s", location)
		}
		opts.Location = loc
	}

	if spec.KeyName != "" {
		key, _, err := c.client.SSHKey.Get(ctx, spec.KeyName)
		if err != nil {
			return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get ssh key: %w", err)
		}
		if key == nil {
			return hcloud.ServerCreateOpts{}, fmt.Errorf("ssh key not found: %s", spec.KeyName)
		}
		opts.SSHKeys = []*hcloud.SSHKey{key}
	}

	return opts, nil
}

// DescribeByTag returns every server whose labels carry one of the values
// under the given key, using a server-side label selector.
func (c *Client) DescribeByTag(ctx context.Context, key string, values []string) ([]cloud.Description, error) {
	if len(values) == 0 {
		return nil, nil
	}

	servers, err := c.client.Server.AllWithOpts(ctx, hcloud.ServerListOpts{
		ListOpts: hcloud.ListOpts{LabelSelector: buildLabelSelector(key, values)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}

	out := make([]cloud.Description, 0, len(servers))
	for _, server := range servers {
		out = append(out, toDescription(server))
	}
	return out, nil
}

// DescribeByID returns descriptions for the given server IDs. Unknown or
// non-numeric IDs are omitted from the result.
func (c *Client) DescribeByID(ctx context.Context, providerIDs []string) ([]cloud.Description, error) {
	var out []cloud.Description
	for _, providerID := range providerIDs {
		id, err := strconv.ParseInt(providerID, 10, 64)
		if err != nil {
			continue
		}
		server, _, err := c.client.Server.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get server %s: %w", providerID, err)
		}
		if server == nil {
			continue
		}
		out = append(out, toDescription(server))
	}
	return out, nil
}

// Tag merges the given tags into the server's labels. Hetzner replaces
// the label set wholesale on update, so existing labels are preserved.
func (c *Client) Tag(ctx context.Context, providerID string, tagSet map[string]string) error {
	if len(tagSet) == 0 {
		return nil
	}

	id, err := strconv.ParseInt(providerID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid server id: %s", providerID)
	}

	server, _, err := c.client.Server.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get server %s: %w", providerID, err)
	}
	if server == nil {
		return fmt.Errorf("server not found: %s", providerID)
	}

	labels := make(map[string]string, len(server.Labels)+len(tagSet))
	for k, v := range server.Labels {
		labels[k] = v
	}
	for k, v := range tagSet {
		labels[k] = v
	}

	err = retry.WithExponentialBackoff(ctx, func() error {
		_, _, err := c.client.Server.Update(ctx, server, hcloud.ServerUpdateOpts{Labels: labels})
		if err != nil {
			if isResourceLocked(err) {
				return err
			}
			if isInvalidParameter(err) {
				return retry.Permanent(err)
			}
			return err
		}
		return nil
	}, retry.WithMaxRetries(c.timeouts.RetryMaxAttempts), retry.WithInitialDelay(c.timeouts.RetryInitialDelay))

	if err != nil {
		return fmt.Errorf("failed to label server %s: %w", providerID, err)
	}
	return nil
}

// Terminate deletes the given servers. IDs that no longer exist are
// ignored.
func (c *Client) Terminate(ctx context.Context, providerIDs []string) error {
	if len(providerIDs) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.DeleteTimeout)
	defer cancel()

	for _, providerID := range providerIDs {
		id, err := strconv.ParseInt(providerID, 10, 64)
		if err != nil {
			continue
		}
		_, _, err = c.client.Server.DeleteWithResult(ctx, &hcloud.Server{ID: id})
		if err != nil && !IsNotFound(err) {
			return fmt.Errorf("failed to delete server %s: %w", providerID, err)
		}
	}
	return nil
}

// DescribeDetails returns hardware details for one server.
func (c *Client) DescribeDetails(ctx context.Context, providerID string) (map[string]string, error) {
	id, err := strconv.ParseInt(providerID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid server id: %s", providerID)
	}

	server, _, err := c.client.Server.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get server %s: %w", providerID, err)
	}
	if server == nil {
		return nil, fmt.Errorf("server not found: %s", providerID)
	}

	details := map[string]string{}
	if server.ServerType != nil {
		details["server-type"] = server.ServerType.Name
		details["cores"] = strconv.Itoa(server.ServerType.Cores)
		details["memory-gb"] = strconv.FormatFloat(float64(server.ServerType.Memory), 'f', -1, 32)
		details["disk-gb"] = strconv.Itoa(server.ServerType.Disk)
	}
	if server.Datacenter != nil {
		details["datacenter"] = server.Datacenter.Name
	}
	return details, nil
}

// buildLabelSelector builds a selector matching any of the values under
// one key, e.g. "Cloudera-Director-Id in (vm-001,vm-002)".
func buildLabelSelector(key string, values []string) string {
	if len(values) == 1 {
		return fmt.Sprintf("%s=%s", key, values[0])
	}
	return fmt.Sprintf("%s in (%s)", key, strings.Join(values, ","))
}

func toDescription(server *hcloud.Server) cloud.Description {
	d := cloud.Description{
		ProviderID: strconv.FormatInt(server.ID, 10),
		VirtualID:  server.Labels[tags.KeyInstanceID],
		State:      string(server.Status),
		Status:     mapStatus(server.Status),
	}

	switch {
	case server.PublicNet.IPv4.IP != nil:
		d.Address = server.PublicNet.IPv4.IP.String()
	case server.PublicNet.IPv6.IP != nil:
		d.Address = server.PublicNet.IPv6.IP.String()
	case len(server.PrivateNet) > 0 && server.PrivateNet[0].IP != nil:
		d.Address = server.PrivateNet[0].IP.String()
	}

	details := map[string]string{}
	if server.ServerType != nil {
		details["server-type"] = server.ServerType.Name
	}
	if server.Datacenter != nil {
		details["datacenter"] = server.Datacenter.Name
	}
	if len(details) > 0 {
		d.Details = details
	}

	return d
}

// mapStatus translates hcloud server statuses into the neutral status
// vocabulary. Servers that disappear from the API entirely are the
// deleted case; the API itself never reports a deleted status.
func mapStatus(status hcloud.ServerStatus) cloud.Status {
	switch status {
	case hcloud.ServerStatusInitializing, hcloud.ServerStatusStarting,
		hcloud.ServerStatusMigrating, hcloud.ServerStatusRebuilding:
		return cloud.StatusPending
	case hcloud.ServerStatusRunning:
		return cloud.StatusRunning
	case hcloud.ServerStatusStopping:
		return cloud.StatusStopping
	case hcloud.ServerStatusOff:
		return cloud.StatusStopped
	case hcloud.ServerStatusDeleting:
		return cloud.StatusDeleting
	default:
		return cloud.StatusUnknown
	}
}
