package dataset

import (
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/san-kum/catchsim/internal/dynamo"
)

// Key identifies a scenario by its storage name. Two shapes are in use:
//
//	PID_A30_BallX070_TrainX010
//	Random_S01_A30_BallX070Y100_TrainX010
//
// Very old datasets only carry the angle, as in PID_Controller_Angle_30.
type Key struct {
	Prefix    string
	Seq       int
	Angle     int
	BallX     int
	BallY     int
	TrainX    int
	HasY      bool
	AngleOnly bool
}

var (
	keyPattern      = regexp.MustCompile(`^([A-Za-z]+)_(?:S(\d+)_)?A(-?\d+)_BallX(\d+)(?:Y(\d+))?_TrainX(\d+)$`)
	angleKeyPattern = regexp.MustCompile(`^(\w+?)_Angle_(-?\d+)$`)
)

// KeyFor names sc with whole-number coordinates. Seq is only rendered when
// positive.
func KeyFor(prefix string, seq int, sc dynamo.Scenario, withY bool) Key {
	return Key{
		Prefix: prefix,
		Seq:    seq,
		Angle:  round(sc.AngleDeg),
		BallX:  round(sc.BallX),
		BallY:  round(sc.BallY0),
		TrainX: round(sc.TrainX0),
		HasY:   withY,
	}
}

func (k Key) String() string {
	if k.AngleOnly {
		return fmt.Sprintf("%s_Angle_%02d", k.Prefix, k.Angle)
	}

	var b strings.Builder
	b.WriteString(k.Prefix)
	if k.Seq > 0 {
		fmt.Fprintf(&b, "_S%02d", k.Seq)
	}
	fmt.Fprintf(&b, "_A%02d_BallX%03d", k.Angle, k.BallX)
	if k.HasY {
		fmt.Fprintf(&b, "Y%03d", k.BallY)
	}
	fmt.Fprintf(&b, "_TrainX%03d", k.TrainX)
	return b.String()
}

func FormatKey(k Key) string { return k.String() }

// ParseKey accepts any key shape, optionally with a directory and a file
// extension.
func ParseKey(name string) (Key, error) {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if m := keyPattern.FindStringSubmatch(base); m != nil {
		k := Key{Prefix: m[1]}
		k.Seq = atoi(m[2])
		k.Angle = atoi(m[3])
		k.BallX = atoi(m[4])
		if m[5] != "" {
			k.HasY = true
			k.BallY = atoi(m[5])
		}
		k.TrainX = atoi(m[6])
		return k, nil
	}

	if m := angleKeyPattern.FindStringSubmatch(base); m != nil {
		return Key{Prefix: m[1], Angle: atoi(m[2]), AngleOnly: true}, nil
	}

	return Key{}, fmt.Errorf("%w: %q", ErrKey, name)
}

// Apply overrides the fields of sc that the key carries.
func (k Key) Apply(sc dynamo.Scenario) dynamo.Scenario {
	sc.AngleDeg = float64(k.Angle)
	if k.AngleOnly {
		return sc
	}
	sc.BallX = float64(k.BallX)
	sc.TrainX0 = float64(k.TrainX)
	if k.HasY {
		sc.BallY0 = float64(k.BallY)
	}
	return sc
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

func round(v float64) int {
	return int(math.Round(v))
}
