package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/jrsteele09/homecare-session/auth"
	"github.com/jrsteele09/homecare-session/internal/utils"
	"github.com/jrsteele09/homecare-session/resources"
	"github.com/jrsteele09/homecare-session/users"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

type usageError string

func (e usageError) Error() string { return string(e) }

// command writes results to out and progress notes, such as an implicit login, to notice
type command struct {
	client *auth.Client
	opts   options
	out    io.Writer
	notice io.Writer
}

func (c *command) dispatch(ctx context.Context, name string, args []string) error {
	switch name {
	case "login":
		return c.login(ctx, c.out)
	case "logout":
		if err := c.client.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "logged out")
		return nil
	}

	if err := c.ensureSession(ctx); err != nil {
		return err
	}
	api := resources.New(c.client)

	switch name {
	case "whoami":
		return c.whoami(ctx)
	case "refresh":
		if !c.client.Refresh(ctx) {
			return &auth.AuthError{Kind: auth.KindSessionExpired, Message: "Session expired. Please log in again."}
		}
		fmt.Fprintln(c.out, "access token refreshed")
		return nil
	case "list":
		if len(args) != 1 {
			return usageError("list needs a collection")
		}
		return c.list(ctx, api, args[0])
	case "get", "delete":
		if len(args) != 2 {
			return usageError(name + " needs a collection and an id")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		if name == "get" {
			return c.get(ctx, api, args[0], id)
		}
		return c.remove(ctx, api, args[0], id)
	case "pay":
		id, err := singleID(name, args)
		if err != nil {
			return err
		}
		return c.print(api.MarkBillingPaid(ctx, id))
	case "nurse-patients":
		id, err := singleID(name, args)
		if err != nil {
			return err
		}
		return c.print(api.NursePatients(ctx, id))
	case "nurse-reports":
		id, err := singleID(name, args)
		if err != nil {
			return err
		}
		return c.print(api.NurseReports(ctx, id))
	case "my-reports":
		return c.print(api.PatientReports(ctx))
	default:
		return usageError(fmt.Sprintf("unknown command %q", name))
	}
}

func (c *command) login(ctx context.Context, w io.Writer) error {
	role, err := users.ParseRole(c.opts.role)
	if err != nil {
		return usageError(fmt.Sprintf("unknown role %q", c.opts.role))
	}
	if c.opts.userID == "" || c.opts.password == "" {
		return usageError("login needs -user and -password")
	}
	session, err := c.client.Login(ctx, role, c.opts.userID, c.opts.password)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "logged in as %s (%s)\n", displayName(session.User), session.Role)
	return nil
}

// ensureSession logs in first when -user is set and nothing is stored yet
func (c *command) ensureSession(ctx context.Context) error {
	if c.opts.userID == "" {
		return nil
	}
	_, err := c.client.Current(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, auth.ErrNotAuthenticated) {
		return err
	}
	return c.login(ctx, c.notice)
}

func (c *command) whoami(ctx context.Context) error {
	session, err := c.client.Current(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s\nuser id: %s\nrole:    %s\n", displayName(session.User), session.User.UserID, session.Role)
	if exp := session.OAuth2Token().Expiry; !exp.IsZero() {
		fmt.Fprintf(c.out, "access token expires %s\n", exp.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

func (c *command) list(ctx context.Context, api *resources.API, collection string) error {
	switch collection {
	case "appointments":
		return c.print(api.Appointments.List(ctx))
	case "nurses":
		return c.print(api.Nurses.List(ctx))
	case "patients":
		return c.print(api.Patients.List(ctx))
	case "billings":
		return c.print(api.Billings.List(ctx))
	case "reports":
		return c.print(api.Reports.List(ctx))
	}
	return usageError(fmt.Sprintf("unknown collection %q", collection))
}

func (c *command) get(ctx context.Context, api *resources.API, collection string, id int64) error {
	switch collection {
	case "appointments":
		return c.print(api.Appointments.Get(ctx, id))
	case "nurses":
		return c.print(api.Nurses.Get(ctx, id))
	case "patients":
		return c.print(api.Patients.Get(ctx, id))
	case "billings":
		return c.print(api.Billings.Get(ctx, id))
	case "reports":
		return c.print(api.Reports.Get(ctx, id))
	}
	return usageError(fmt.Sprintf("unknown collection %q", collection))
}

func (c *command) remove(ctx context.Context, api *resources.API, collection string, id int64) error {
	var err error
	switch collection {
	case "appointments":
		err = api.Appointments.Delete(ctx, id)
	case "nurses":
		err = api.Nurses.Delete(ctx, id)
	case "patients":
		err = api.Patients.Delete(ctx, id)
	case "billings":
		err = api.Billings.Delete(ctx, id)
	case "reports":
		err = api.Reports.Delete(ctx, id)
	default:
		return usageError(fmt.Sprintf("unknown collection %q", collection))
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "deleted %s %d\n", collection, id)
	return nil
}

func (c *command) print(v any, err error) error {
	if err != nil {
		return err
	}
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func displayName(p users.Profile) string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.UserID
}

func singleID(name string, args []string) (int64, error) {
	if len(args) != 1 {
		return 0, usageError(name + " needs an id")
	}
	return parseID(args[0])
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, usageError(fmt.Sprintf("invalid id %q", s))
	}
	return id, nil
}

// printMetrics writes counter values and histogram sample counts, one line per series
func printMetrics(w io.Writer, g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		fmt.Fprintf(w, "gather metrics: %v\n", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var value float64
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				value = utils.Value(m.GetCounter().Value)
			case dto.MetricType_HISTOGRAM:
				value = float64(utils.Value(m.GetHistogram().SampleCount))
			default:
				continue
			}
			fmt.Fprintf(w, "%s%s %g\n", mf.GetName(), formatLabels(m.GetLabel()), value)
		}
	}
}

func formatLabels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	labels := make([]string, 0, len(pairs))
	for _, p := range pairs {
		labels = append(labels, fmt.Sprintf("%s=%q", p.GetName(), p.GetValue()))
	}
	sort.Strings(labels)
	return "{" + strings.Join(labels, ",") + "}"
}
