package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); !reflect.DeepEqual(got, []string{FormatSVG}) {
		t.Errorf("parseFormats(\"\") = %v, want [svg]", got)
	}
	if got := parseFormats("json"); !reflect.DeepEqual(got, []string{"json"}) {
		t.Errorf("parseFormats(json) = %v", got)
	}
	if got := parseFormats("svg,json"); !reflect.DeepEqual(got, []string{"svg", "json"}) {
		t.Errorf("parseFormats(svg,json) = %v", got)
	}
}

func TestValidateFormats(t *testing.T) {
	if err := validateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("validateFormats() error: %v", err)
	}
	err := validateFormats([]string{"svg", "png"})
	if err == nil {
		t.Fatal("validateFormats() accepted png")
	}
	if !strings.Contains(err.Error(), "png") {
		t.Errorf("error %q does not name the bad format", err)
	}
}

func TestBasePath(t *testing.T) {
	cases := []struct {
		output, input, want string
	}{
		{"", "plans/tower.toml", "plans/tower"},
		{"out.svg", "plan.toml", "out"},
		{"out.json", "plan.toml", "out"},
		{"out", "plan.toml", "out"},
		{"out.backup", "plan.toml", "out.backup"},
	}
	for _, tc := range cases {
		if got := basePath(tc.output, tc.input); got != tc.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tc.output, tc.input, got, tc.want)
		}
	}
}

func TestNew_LoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug message logged at info level: %q", buf.String())
	}

	c.SetLogLevel(LogDebug)
	c.Logger.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("debug message missing after SetLogLevel")
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	c := New(os.Stderr, log.WarnLevel)
	root := c.RootCommand()

	if root.Use != appName {
		t.Errorf("root Use = %q, want %q", root.Use, appName)
	}
	want := map[string]bool{"generate": false, "variants": false, "serve": false}
	for _, sub := range root.Commands() {
		name := strings.Fields(sub.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

const testPlanTOML = `
[footprint]
length = 60.0
depth  = 18.0

[[unit]]
name        = "studio"
percentage  = 20
target_area = 55

[[unit]]
name        = "one-bed"
percentage  = 40
target_area = 82

[[unit]]
name        = "two-bed"
percentage  = 30
target_area = 110

[[unit]]
name        = "three-bed"
percentage  = 10
target_area = 137

[egress]
sprinklered = true
`

func TestGenerateCommand_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "plan.toml")
	if err := os.WriteFile(planPath, []byte(testPlanTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	outBase := filepath.Join(dir, "out")

	c := New(bytes.NewBuffer(nil), log.ErrorLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"generate", planPath, "-o", outBase, "-f", "svg,json", "--summary=false"})
	root.SetOut(bytes.NewBuffer(nil))

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	svg, err := os.ReadFile(outBase + ".svg")
	if err != nil {
		t.Fatalf("no SVG output: %v", err)
	}
	if !bytes.Contains(svg, []byte("</svg>")) {
		t.Error("SVG output truncated")
	}
	if _, err := os.Stat(outBase + ".json"); err != nil {
		t.Errorf("no JSON output: %v", err)
	}
}

func TestGenerateCommand_BadFormat(t *testing.T) {
	c := New(bytes.NewBuffer(nil), log.ErrorLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"generate", "plan.toml", "-f", "png"})
	root.SetOut(bytes.NewBuffer(nil))
	root.SetErr(bytes.NewBuffer(nil))

	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("generate accepted an invalid format")
	}
}

func TestVariantsCommand_WritesPerStrategy(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "plan.toml")
	if err := os.WriteFile(planPath, []byte(testPlanTOML), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(bytes.NewBuffer(nil), log.ErrorLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"variants", planPath, "-f", "json", "-o", filepath.Join(dir, "v")})
	root.SetOut(bytes.NewBuffer(nil))

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("variants failed: %v", err)
	}

	for _, label := range []string{"balanced", "mixOptimized", "efficiencyOptimized"} {
		path := filepath.Join(dir, "v_"+label+".json")
		if _, err := os.Stat(path); err != nil {
			t.Errorf("no output for %s variant: %v", label, err)
		}
	}
}
