package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/born-ml/tensorops/internal/backend/cpu"
	"github.com/born-ml/tensorops/internal/backend/webgpu"
	"github.com/born-ml/tensorops/internal/config"
	"github.com/born-ml/tensorops/internal/kernels"
	"github.com/born-ml/tensorops/internal/onnx/operators"
	"github.com/born-ml/tensorops/internal/sweep"
	"github.com/born-ml/tensorops/internal/tensor"
)

// errSweepFailed is returned when an agreement sweep finds mismatches.
var errSweepFailed = errors.New("sweep found mismatches")

func appendEnvDocs(cmd *cobra.Command, envs []config.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// NewCLI builds the root command.
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "tensorops",
		Short:         "Elementwise tensor operator catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			if v, _ := cmd.Flags().GetBool("version"); v {
				versionHandler(cmd, args)
				return
			}

			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	opsCmd := newOpsCmd()
	evalCmd := newEvalCmd()
	sweepCmd := newSweepCmd()
	onnxCmd := newOnnxCmd()
	wgslCmd := newWGSLCmd()
	envCmd := newEnvCmd()
	versionCmd := newVersionCmd()

	envVars := config.AsMap()
	appendEnvDocs(evalCmd, []config.EnvVar{envVars["TENSOROPS_DEVICE"]})
	appendEnvDocs(sweepCmd, []config.EnvVar{
		envVars["TENSOROPS_DEBUG"],
		envVars["TENSOROPS_DEVICE"],
		envVars["TENSOROPS_WORKERS"],
		envVars["TENSOROPS_MIN_CHUNK"],
	})

	rootCmd.AddCommand(opsCmd, evalCmd, sweepCmd, onnxCmd, wgslCmd, envCmd, versionCmd)
	return rootCmd
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.SetAutoWrapText(false)
	return table
}

func newOpsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ops",
		Short: "List catalog operators",
		Args:  cobra.NoArgs,
		RunE:  OpsHandler,
	}
	cmd.Flags().IntP("arity", "a", -1, "Only list operators taking this many operands")
	return cmd
}

// OpsHandler lists operators with their value, arity and f16 shader path.
func OpsHandler(cmd *cobra.Command, _ []string) error {
	arity, _ := cmd.Flags().GetInt("arity")

	ops := kernels.All()
	if arity >= 0 {
		ops = kernels.WithArity(arity)
	}

	var data [][]string
	for _, op := range ops {
		f16 := "promoted"
		if webgpu.NativeF16(op) {
			f16 = "native"
		}
		data = append(data, []string{op.Name(), strconv.Itoa(int(op)), strconv.Itoa(op.Arity()), f16})
	}

	table := newTable(cmd.OutOrStdout(), "NAME", "VALUE", "ARITY", "F16 SHADER")
	table.AppendBulk(data)
	table.Render()
	return nil
}

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval OPERATOR [OPERAND...]",
		Short: "Evaluate one operator on scalar operands",
		Args:  cobra.MinimumNArgs(1),
		RunE:  EvalHandler,
	}
	cmd.Flags().StringP("dtype", "t", "", "Precision (float32, float64, float16); default all")
	return cmd
}

// EvalHandler evaluates an operator at one or every precision.
func EvalHandler(cmd *cobra.Command, args []string) error {
	op, err := kernels.Lookup(args[0])
	if err != nil {
		return err
	}

	operands := make([]float64, len(args)-1)
	for i, s := range args[1:] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("operand %d: %w", i, err)
		}
		operands[i] = v
	}

	dtypes := tensor.DataTypes()
	if s, _ := cmd.Flags().GetString("dtype"); s != "" {
		dt, err := tensor.ParseDataType(s)
		if err != nil {
			return err
		}
		dtypes = []tensor.DataType{dt}
	}

	var data [][]string
	for _, dt := range dtypes {
		v, err := kernels.Eval(op, dt, operands...)
		if err != nil {
			return err
		}
		data = append(data, []string{dt.String(), strconv.FormatFloat(v, 'g', -1, 64)})
	}

	table := newTable(cmd.OutOrStdout(), "DTYPE", op.Name())
	table.SetAutoFormatHeaders(false)
	table.AppendBulk(data)
	table.Render()
	return nil
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Check operator agreement across precisions and devices",
		Args:  cobra.NoArgs,
		RunE:  SweepHandler,
	}
	cmd.Flags().StringSlice("ops", nil, "Operators to check (default all)")
	cmd.Flags().Bool("device", false, "Also compare the WebGPU backend against the CPU backend")
	return cmd
}

// SweepHandler runs the half, single/double and optional device sweeps and
// prints the operators that disagree.
func SweepHandler(cmd *cobra.Command, _ []string) error {
	logger := config.NewLogger(cmd.ErrOrStderr())

	names, _ := cmd.Flags().GetStringSlice("ops")
	ops := make([]kernels.Op, 0, len(names))
	for _, name := range names {
		op, err := kernels.Lookup(name)
		if err != nil {
			return err
		}
		ops = append(ops, op)
	}
	opts := sweep.Options{Ops: ops, Logger: logger}

	type namedResults struct {
		name    string
		results []sweep.Result
	}
	var all []namedResults

	half, err := sweep.HalfAgreement(cmd.Context(), opts)
	if err != nil {
		return err
	}
	all = append(all, namedResults{"half", half})

	single, err := sweep.SingleDoubleAgreement(cmd.Context(), opts)
	if err != nil {
		return err
	}
	all = append(all, namedResults{"single-double", single})

	if d, _ := cmd.Flags().GetBool("device"); d || config.Device() == tensor.WebGPU {
		dev, release, err := openDevice()
		if err != nil {
			return err
		}
		defer release()

		host := cpu.NewWithConfig(config.Parallel())
		for _, dt := range []tensor.DataType{tensor.Float32, tensor.Float16} {
			res, err := sweep.DeviceAgreement(cmd.Context(), host, dev, dt, opts)
			if err != nil {
				return err
			}
			all = append(all, namedResults{"device-" + dt.String(), res})
		}
	}

	var data [][]string
	failed := 0
	for _, nr := range all {
		checked, f := sweep.Summary(nr.results)
		failed += f
		data = append(data, []string{nr.name, "*", strconv.Itoa(checked), strconv.Itoa(f)})
		for _, r := range nr.results {
			if !r.Passed() {
				data = append(data, []string{nr.name, r.Op.Name(), strconv.Itoa(r.Checked), strconv.Itoa(r.Failed)})
			}
		}
	}

	table := newTable(cmd.OutOrStdout(), "SWEEP", "OPERATOR", "CHECKED", "FAILED")
	table.AppendBulk(data)
	table.Render()

	if failed > 0 {
		return fmt.Errorf("%w: %d inputs", errSweepFailed, failed)
	}
	return nil
}

func newOnnxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "onnx [CNTK_OPERATOR]",
		Short: "Show the CNTK to ONNX export mapping",
		Args:  cobra.MaximumNArgs(1),
		RunE:  OnnxHandler,
	}
	cmd.Flags().Bool("json", false, "Print candidates as JSON")
	cmd.Flags().Bool("supported", false, "List ONNX operators the executor supports")
	return cmd
}

type candidateJSON struct {
	OpType         string   `json:"op_type"`
	Attributes     any      `json:"attributes"`
	Unmapped       []string `json:"unmapped,omitempty"`
	InvalidIndices []int    `json:"invalid_indices,omitempty"`
}

func invalidIndices(c operators.ExportCandidate) []int {
	idx := make([]int, 0, len(c.InvalidIndices))
	for i := range c.InvalidIndices {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// OnnxHandler prints export candidates for one or every CNTK operator.
func OnnxHandler(cmd *cobra.Command, args []string) error {
	if s, _ := cmd.Flags().GetBool("supported"); s {
		for _, op := range operators.NewRegistry().SupportedOps() {
			fmt.Fprintln(cmd.OutOrStdout(), op)
		}
		return nil
	}

	names := operators.ExportNames()
	if len(args) == 1 {
		if len(operators.ExportCandidates(args[0])) == 0 {
			return fmt.Errorf("no ONNX export for %q", args[0])
		}
		names = args
	}

	if j, _ := cmd.Flags().GetBool("json"); j {
		out := make(map[string][]candidateJSON, len(names))
		for _, name := range names {
			for _, c := range operators.ExportCandidates(name) {
				out[name] = append(out[name], candidateJSON{
					OpType:         c.OpType,
					Attributes:     c.Attributes,
					Unmapped:       c.Unmapped,
					InvalidIndices: invalidIndices(c),
				})
			}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	var data [][]string
	for _, name := range names {
		for _, c := range operators.ExportCandidates(name) {
			var renames []string
			for p := c.Attributes.Oldest(); p != nil; p = p.Next() {
				renames = append(renames, p.Key+"->"+p.Value)
			}
			renames = append(renames, c.Unmapped...)

			var invalid []string
			for _, i := range invalidIndices(c) {
				invalid = append(invalid, strconv.Itoa(i))
			}
			data = append(data, []string{name, c.OpType, strings.Join(renames, ","), strings.Join(invalid, ",")})
		}
	}

	table := newTable(cmd.OutOrStdout(), "CNTK", "ONNX", "ATTRIBUTES", "INVALID INPUTS")
	table.AppendBulk(data)
	table.Render()
	return nil
}

func newWGSLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wgsl OPERATOR",
		Short: "Print the WGSL compute shader for an operator",
		Args:  cobra.ExactArgs(1),
		RunE:  WGSLHandler,
	}
	cmd.Flags().StringP("dtype", "t", "float32", "Precision (float32 or float16)")
	cmd.Flags().Bool("shader-f16", false, "Target devices with the shader-f16 feature")
	return cmd
}

// WGSLHandler prints generated shader source.
func WGSLHandler(cmd *cobra.Command, args []string) error {
	op, err := kernels.Lookup(args[0])
	if err != nil {
		return err
	}
	s, _ := cmd.Flags().GetString("dtype")
	dt, err := tensor.ParseDataType(s)
	if err != nil {
		return err
	}
	f16, _ := cmd.Flags().GetBool("shader-f16")

	src, err := webgpu.ShaderSource(op, dt, webgpu.Capabilities{ShaderF16: f16})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), src)
	return nil
}

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show configuration from the environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vars := config.AsMap()
			vals := config.Values()
			keys := make([]string, 0, len(vars))
			for k := range vars {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			var data [][]string
			for _, k := range keys {
				data = append(data, []string{k, vals[k], vars[k].Description})
			}
			table := newTable(cmd.OutOrStdout(), "NAME", "VALUE", "DESCRIPTION")
			table.AppendBulk(data)
			table.Render()
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run:   versionHandler,
	}
}

func versionHandler(cmd *cobra.Command, _ []string) {
	fmt.Fprintf(cmd.OutOrStdout(), "tensorops version %s\n", version)
}
