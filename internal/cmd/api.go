package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/maison/internal/api"
	"github.com/felixgeelhaar/maison/internal/contract"
	"github.com/felixgeelhaar/maison/internal/errors"
	"github.com/felixgeelhaar/maison/internal/ux"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Inspect the storefront API the client talks to",
}

var apiEndpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "List the operations the client calls",
	Args:  cobra.NoArgs,
	RunE:  runAPIEndpoints,
}

var apiCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the client against an OpenAPI description",
	Long: `Compare every operation the client calls with an OpenAPI description of
the storefront API. Without --spec the description bundled with the client
is used. Operations the client calls but the document lacks are errors;
documented operations the client never calls are reported for information.`,
	Args: cobra.NoArgs,
	RunE: runAPICheck,
}

var apiSpecPath string

func init() {
	apiCheckCmd.Flags().StringVar(&apiSpecPath, "spec", "", "OpenAPI document to check against (YAML or JSON)")

	apiCmd.AddCommand(apiEndpointsCmd)
	apiCmd.AddCommand(apiCheckCmd)

	rootCmd.AddCommand(apiCmd)
}

type endpointsView []api.Endpoint

func (v endpointsView) Data() any { return []api.Endpoint(v) }

func (v endpointsView) Text(s ux.Styles) string {
	rows := make([][]string, 0, len(v))
	for _, ep := range v {
		rows = append(rows, []string{ep.Name, ep.Method, ep.Path})
	}
	return s.Table([]string{"Operation", "Method", "Path"}, rows)
}

type reportView struct {
	Report contract.Report
}

func (v reportView) Data() any { return v.Report }

func (v reportView) Text(s ux.Styles) string {
	r := v.Report
	var b strings.Builder
	b.WriteString(s.Muted.Render(fmt.Sprintf("Checked %d client operations against %d documented operations in %s",
		r.Checked, r.Operations, r.Source)) + "\n")
	if len(r.Findings) > 0 {
		rows := make([][]string, 0, len(r.Findings))
		for _, f := range r.Findings {
			severity := s.Muted.Render(f.Severity)
			if f.Severity == contract.SeverityError {
				severity = s.Error.Render(f.Severity)
			}
			rows = append(rows, []string{severity, f.Method, f.Path, f.Message})
		}
		b.WriteString(s.Table([]string{"Severity", "Method", "Path", "Finding"}, rows) + "\n")
	}
	if r.OK() {
		b.WriteString(s.Success.Render("Client matches the API description"))
	} else {
		b.WriteString(s.Error.Render("Client calls operations the API description does not define"))
	}
	return b.String()
}

func runAPIEndpoints(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	return e.print(endpointsView(api.Endpoints()))
}

func runAPICheck(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}

	var doc *contract.Document
	if apiSpecPath == "" {
		doc, err = contract.Bundled()
	} else {
		doc, err = contract.Load(apiSpecPath)
	}
	if err != nil {
		return err
	}

	report := doc.Check(api.Endpoints())
	e.logger.Debug("contract checked", "source", report.Source, "findings", len(report.Findings))
	if err := e.print(reportView{Report: report}); err != nil {
		return err
	}
	if !report.OK() {
		return errors.New(errors.ErrCodeAPIContract, "the API description is missing operations the client uses")
	}
	return nil
}
