package posctl

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/edvin/retailpos/internal/model"
)

// Status prints readiness of the API and its GHL connection. It returns an
// error when the API reports itself not ready.
func Status(ctx context.Context, c *Client, w io.Writer) error {
	checks := map[string]string{}
	resp, readyErr := c.Get(ctx, "/readyz")
	if resp == nil {
		return readyErr
	}
	if err := resp.Decode(&checks); err != nil {
		return err
	}

	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%-10s %s\n", name, checks[name])
	}

	var auth struct {
		Connected  bool   `json:"connected"`
		Expired    bool   `json:"expired"`
		LocationID string `json:"location_id"`
	}
	resp, err := c.Get(ctx, "/auth/status")
	switch {
	case err != nil && resp != nil && resp.StatusCode == 503:
		fmt.Fprintf(w, "%-10s not configured\n", "ghl")
	case err != nil:
		fmt.Fprintf(w, "%-10s %v\n", "ghl", err)
	default:
		if err := resp.Decode(&auth); err != nil {
			return err
		}
		switch {
		case !auth.Connected:
			fmt.Fprintf(w, "%-10s not connected, visit /auth\n", "ghl")
		case auth.Expired:
			fmt.Fprintf(w, "%-10s token expired (location %s)\n", "ghl", auth.LocationID)
		default:
			fmt.Fprintf(w, "%-10s connected (location %s)\n", "ghl", auth.LocationID)
		}
	}

	return readyErr
}

// Diagnose prints the Stripe Terminal diagnostics of a running API and returns
// an error if any problem was found.
func Diagnose(ctx context.Context, c *Client, w io.Writer) error {
	resp, err := c.Get(ctx, "/terminal/diagnostics")
	if err != nil {
		return err
	}
	var d model.TerminalDiagnostics
	if err := resp.Decode(&d); err != nil {
		return err
	}

	fmt.Fprintf(w, "Mode:      %s\n", d.Mode)
	if d.LocationConfigured {
		fmt.Fprintf(w, "Location:  %s (found: %t)\n", d.LocationID, d.LocationFound)
	} else {
		fmt.Fprintln(w, "Location:  not configured")
	}
	fmt.Fprintf(w, "Locations: %d\n", len(d.Locations))
	for _, l := range d.Locations {
		fmt.Fprintf(w, "  %s  %s  %s\n", l.ID, l.DisplayName, l.Address)
	}
	fmt.Fprintf(w, "Readers:   %d online, %d offline\n", d.ReadersOnline, d.ReadersOffline)
	for _, r := range d.Readers {
		fmt.Fprintf(w, "  %s  %-8s %s %s\n", r.ID, r.Status, r.DeviceType, r.Label)
	}

	if len(d.Problems) == 0 {
		fmt.Fprintln(w, "No problems found.")
		return nil
	}
	fmt.Fprintln(w, "Problems:")
	for _, p := range d.Problems {
		fmt.Fprintf(w, "  - %s\n", p)
	}
	return fmt.Errorf("%d terminal problem(s) found", len(d.Problems))
}
