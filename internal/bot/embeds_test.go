package bot

import (
	"strconv"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/itsrainingtacos/arcabloom/internal/taco"
)

func TestHPBar(t *testing.T) {
	if bar := hpBar(100, 100); strings.Contains(bar, "░") {
		t.Errorf("full bar = %q", bar)
	}
	if bar := hpBar(0, 100); strings.Contains(bar, "█") {
		t.Errorf("empty bar = %q", bar)
	}
	if bar := hpBar(-20, 100); strings.Contains(bar, "█") {
		t.Errorf("negative HP bar = %q", bar)
	}
	half := hpBar(50, 100)
	if strings.Count(half, "█") != hpBarWidth/2 {
		t.Errorf("half bar = %q", half)
	}
	// Bars are fixed width regardless of fill.
	for _, bar := range []string{hpBar(100, 100), hpBar(7, 100), hpBar(0, 0)} {
		if n := len([]rune(bar)); n != hpBarWidth {
			t.Errorf("bar width = %d, want %d (%q)", n, hpBarWidth, bar)
		}
	}
}

func TestTacoSelectOptionsCap(t *testing.T) {
	tpl, _ := taco.TemplateByID("CLASSIC")
	tacos := make([]taco.Instance, 30)
	for i := range tacos {
		tacos[i] = taco.Instantiate(tpl, i+1)
	}

	opts := tacoSelectOptions(tacos)
	if len(opts) != 25 {
		t.Fatalf("options = %d, want 25 (Discord limit)", len(opts))
	}
	// Values are inventory indexes.
	for i, opt := range opts {
		if opt.Value != strconv.Itoa(i) {
			t.Errorf("option %d value = %q", i, opt.Value)
		}
	}
}

func TestHasAnyRole(t *testing.T) {
	member := &discordgo.Member{Roles: []string{"r1", "r2"}}

	if !hasAnyRole(member, "r2") {
		t.Error("direct role not matched")
	}
	if !hasAnyRole(member, "", "r1") {
		t.Error("empty role id should be skipped, not matched")
	}
	if hasAnyRole(member, "r3") {
		t.Error("missing role matched")
	}
	if hasAnyRole(member, "") {
		t.Error("empty wanted role matched")
	}
	if hasAnyRole(nil, "r1") {
		t.Error("nil member matched")
	}
}

func TestBanTimeFor(t *testing.T) {
	for _, d := range banDurations {
		bt, ok := banTimeFor(d.Value)
		if !ok {
			t.Errorf("duration %q not resolvable", d.Value)
			continue
		}
		if d.Value == "forever" {
			if !bt.Forever {
				t.Error("forever did not produce a permanent ban")
			}
			continue
		}
		if bt.Forever || bt.Until <= 0 {
			t.Errorf("duration %q produced ban time %+v", d.Value, bt)
		}
	}
	if _, ok := banTimeFor("2y"); ok {
		t.Error("unknown duration accepted")
	}
}
