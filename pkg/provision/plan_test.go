package provision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/deskup/pkg/cmdexec"
	"github.com/arthur-debert/deskup/pkg/cmdexec/testutil"
	"github.com/arthur-debert/deskup/pkg/config"
	"github.com/arthur-debert/deskup/pkg/errors"
	"github.com/arthur-debert/deskup/pkg/fileops"
	"github.com/arthur-debert/deskup/pkg/initsys"
	"github.com/arthur-debert/deskup/pkg/portage"
	"github.com/arthur-debert/deskup/pkg/sysusers"
	"github.com/arthur-debert/deskup/pkg/xsession"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
)

func newTestFileSystem() filesystem.FullFileSystem {
	testFS := filesystem.NewTestFileSystem()
	return synthfs.NewPathAwareFileSystem(testFS, "/").WithAbsolutePaths()
}

func testConfig() *config.Config {
	return &config.Config{
		User:   "larry",
		Init:   config.InitAuto,
		Groups: []string{"audio", "video"},
		Portage: config.Portage{
			Profile:  "default/linux/amd64/23.0/desktop",
			Sync:     true,
			UseFlags: []string{"X", "gtk"},
			MakeConf: "/etc/portage/make.conf",
		},
		Packages: config.Packages{
			Xorg:    "x11-base/xorg-server",
			Desktop: []string{"xfce-base/xfce4-meta"},
			Extras:  []string{"x11-terms/xfce4-terminal"},
		},
		Services: config.Services{
			Systemd: []string{"lightdm"},
			Openrc:  []string{"dbus"},
		},
		Session: config.Session{
			Command:      "startxfce4",
			WriteXinitrc: true,
			SeedXfconf:   true,
		},
	}
}

func newTestDeps(t *testing.T, runner *testutil.FakeRunner, ops *fileops.Executor, kind initsys.Kind) Deps {
	t.Helper()
	users := sysusers.NewManager(runner)
	services, err := initsys.NewManager(kind, runner)
	require.NoError(t, err)
	return Deps{
		Packages: portage.NewManager(runner),
		MakeConf: portage.NewMakeConf("/etc/portage/make.conf", ops),
		Users:    users,
		Session:  xsession.NewManager(ops, users),
		Services: services,
	}
}

func stepNames(plan *Plan) []string {
	names := make([]string, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		names = append(names, step.Name)
	}
	return names
}

func findStep(t *testing.T, plan *Plan, name string) Step {
	t.Helper()
	for _, step := range plan.Steps {
		if step.Name == name {
			return step
		}
	}
	t.Fatalf("plan has no step %q", name)
	return Step{}
}

func TestNewPlanStepOrder(t *testing.T) {
	runner := testutil.NewFakeRunner()
	ops := fileops.NewWithFS(newTestFileSystem())
	plan := NewPlan(testConfig(), newTestDeps(t, runner, ops, initsys.OpenRC))

	assert.Equal(t, []string{
		"sync portage tree",
		"select profile",
		"append use flags",
		"install x11-base/xorg-server",
		"install xfce-base/xfce4-meta",
		"install x11-terms/xfce4-terminal",
		"add larry to audio",
		"add larry to video",
		"refresh environment",
		"write .xinitrc",
		"seed xfconf channel",
		"enable dbus",
	}, stepNames(plan))
	assert.Equal(t, "larry", plan.User)
	assert.Equal(t, initsys.OpenRC, plan.Init)
}

func TestNewPlanServicesFollowInitKind(t *testing.T) {
	runner := testutil.NewFakeRunner()
	ops := fileops.NewWithFS(newTestFileSystem())
	plan := NewPlan(testConfig(), newTestDeps(t, runner, ops, initsys.Systemd))

	names := stepNames(plan)
	assert.Contains(t, names, "enable lightdm")
	assert.NotContains(t, names, "enable dbus")
	assert.Equal(t, initsys.Systemd, plan.Init)
}

func TestNewPlanSyncDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Portage.Sync = false
	runner := testutil.NewFakeRunner()
	ops := fileops.NewWithFS(newTestFileSystem())

	plan := NewPlan(cfg, newTestDeps(t, runner, ops, initsys.OpenRC))

	assert.NotContains(t, stepNames(plan), "sync portage tree")
}

func TestNewPlanNoUseFlags(t *testing.T) {
	cfg := testConfig()
	cfg.Portage.UseFlags = nil
	runner := testutil.NewFakeRunner()
	ops := fileops.NewWithFS(newTestFileSystem())

	plan := NewPlan(cfg, newTestDeps(t, runner, ops, initsys.OpenRC))

	assert.NotContains(t, stepNames(plan), "append use flags")
}

func TestNewPlanUseFlagsOnce(t *testing.T) {
	runner := testutil.NewFakeRunner()
	ops := fileops.NewWithFS(newTestFileSystem())

	repeatable := NewPlan(testConfig(), newTestDeps(t, runner, ops, initsys.OpenRC))
	assert.Nil(t, findStep(t, repeatable, "append use flags").Check,
		"appending stays repeatable unless asked otherwise")

	cfg := testConfig()
	cfg.Portage.UseFlagsOnce = true
	once := NewPlan(cfg, newTestDeps(t, runner, ops, initsys.OpenRC))
	assert.NotNil(t, findStep(t, once, "append use flags").Check)
}

func TestRunPlanProvisionsHost(t *testing.T) {
	runner := testutil.NewFakeRunner()
	// The profile is already selected, the terminal already installed and
	// larry already in audio; those steps must be skipped.
	runner.Captures["eselect profile show"] = cmdexec.Result{
		Stdout: "Current make.profile symlink:\n  default/linux/amd64/23.0/desktop\n",
	}
	runner.Captures["qlist -I x11-terms/xfce4-terminal"] = cmdexec.Result{
		Stdout: "x11-terms/xfce4-terminal\n",
	}
	runner.Captures["id -nG larry"] = cmdexec.Result{Stdout: "larry wheel audio\n"}

	ops := fileops.NewWithFS(newTestFileSystem())
	plan := NewPlan(testConfig(), newTestDeps(t, runner, ops, initsys.OpenRC))

	report := Run(plan)

	require.True(t, report.Success(), "run failed: %v", report.Err)
	assert.Equal(t, []string{
		"emerge --sync --quiet",
		"eselect profile show",
		"qlist -I x11-base/xorg-server",
		"emerge --quiet-build=y x11-base/xorg-server",
		"qlist -I xfce-base/xfce4-meta",
		"emerge --quiet-build=y xfce-base/xfce4-meta",
		"qlist -I x11-terms/xfce4-terminal",
		"id -nG larry",
		"id -nG larry",
		"gpasswd -a larry video",
		"env-update",
		"chown larry: /home/larry/.xinitrc",
		"chown larry: /home/larry/.config",
		"chown -R larry: /home/larry/.config/xfce4",
		"rc-update show default",
		"rc-update add dbus default",
	}, runner.Commands)

	assert.Equal(t, 9, report.CompletedSteps)
	assert.Equal(t, 3, report.SkippedSteps)

	makeConf, err := ops.ReadFile("/etc/portage/make.conf")
	require.NoError(t, err)
	assert.Equal(t, "USE=\"X gtk\"\n", string(makeConf))

	xinitrc, err := ops.ReadFile("/home/larry/.xinitrc")
	require.NoError(t, err)
	assert.Equal(t, "exec startxfce4\n", string(xinitrc))
}

func TestRunPlanFailsFastOnInstall(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Failures["emerge --quiet-build=y xfce-base/xfce4-meta"] = 2

	ops := fileops.NewWithFS(newTestFileSystem())
	plan := NewPlan(testConfig(), newTestDeps(t, runner, ops, initsys.OpenRC))

	report := Run(plan)

	require.False(t, report.Success())
	assert.Equal(t, "install xfce-base/xfce4-meta", report.FailedStep)
	assert.Equal(t, 2, errors.ExitCode(report.Err))

	command, ok := errors.DetailString(report.Err, errors.DetailCommand)
	require.True(t, ok)
	assert.Equal(t, "emerge --quiet-build=y xfce-base/xfce4-meta", command)

	// Nothing after the failing step may touch the host.
	assert.False(t, runner.Ran("qlist -I x11-terms/xfce4-terminal"))
	assert.False(t, runner.Ran("env-update"))
	assert.False(t, runner.Ran("rc-update add dbus default"))
	assert.False(t, ops.Exists("/home/larry/.xinitrc"))

	last := report.Steps[len(report.Steps)-1]
	assert.Equal(t, "enable dbus", last.Name)
	assert.Equal(t, StatusPending, last.Status)
}

func TestProbeOnlyRunsChecks(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Captures["qlist -I x11-base/xorg-server"] = cmdexec.Result{
		Stdout: "x11-base/xorg-server\n",
	}

	ops := fileops.NewWithFS(newTestFileSystem())
	plan := NewPlan(testConfig(), newTestDeps(t, runner, ops, initsys.OpenRC))

	results := Probe(plan)

	require.Len(t, results, len(plan.Steps))
	assert.False(t, runner.Ran("emerge --sync --quiet"))
	assert.False(t, runner.Ran("emerge --quiet-build=y x11-base/xorg-server"))
	assert.False(t, runner.Ran("gpasswd -a larry audio"))
	assert.False(t, ops.Exists("/home/larry/.xinitrc"))

	byName := make(map[string]StepResult)
	for _, result := range results {
		byName[result.Name] = result
	}
	assert.Equal(t, StatusPending, byName["sync portage tree"].Status)
	assert.Equal(t, StatusSkipped, byName["install x11-base/xorg-server"].Status)
	assert.Equal(t, StatusPending, byName["install xfce-base/xfce4-meta"].Status)
}
