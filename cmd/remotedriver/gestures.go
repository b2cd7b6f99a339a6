package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/v0xg/remotedriver/internal/timeouts"
	"github.com/v0xg/remotedriver/internal/touch"
)

// gesture describes one touch subcommand
type gesture struct {
	use   string
	short string
	args  int
	// elems is how many leading args are elements; the rest are integers
	elems int
	run   func(ctx context.Context, ts *touch.TouchScreen, s *session, args []string, n []int) (*touch.TouchScreen, error)
}

var gestures = []gesture{
	{"tap <element>...", "Tap one or more elements in order", -1, -1,
		func(ctx context.Context, ts *touch.TouchScreen, s *session, args []string, _ []int) (*touch.TouchScreen, error) {
			var err error
			for _, id := range args {
				if ts, err = ts.Tap(ctx, s.element(id)); err != nil {
					return ts, err
				}
			}
			return ts, nil
		}},
	{"double-tap <element>", "Double-tap an element", 1, 1,
		func(ctx context.Context, ts *touch.TouchScreen, s *session, args []string, _ []int) (*touch.TouchScreen, error) {
			return ts.DoubleTap(ctx, s.element(args[0]))
		}},
	{"long-press <element>", "Press and hold an element", 1, 1,
		func(ctx context.Context, ts *touch.TouchScreen, s *session, args []string, _ []int) (*touch.TouchScreen, error) {
			return ts.LongPress(ctx, s.element(args[0]))
		}},
	{"down <x> <y>", "Put a finger down at a screen position", 2, 0,
		func(ctx context.Context, ts *touch.TouchScreen, _ *session, _ []string, n []int) (*touch.TouchScreen, error) {
			return ts.Down(ctx, n[0], n[1])
		}},
	{"up <x> <y>", "Lift the finger at a screen position", 2, 0,
		func(ctx context.Context, ts *touch.TouchScreen, _ *session, _ []string, n []int) (*touch.TouchScreen, error) {
			return ts.Up(ctx, n[0], n[1])
		}},
	{"move <x> <y>", "Move the finger to a screen position", 2, 0,
		func(ctx context.Context, ts *touch.TouchScreen, _ *session, _ []string, n []int) (*touch.TouchScreen, error) {
			return ts.Move(ctx, n[0], n[1])
		}},
	{"flick <xspeed> <yspeed>", "Flick with the given speeds (px/s)", 2, 0,
		func(ctx context.Context, ts *touch.TouchScreen, _ *session, _ []string, n []int) (*touch.TouchScreen, error) {
			return ts.Flick(ctx, n[0], n[1])
		}},
	{"flick-element <element> <xoffset> <yoffset> <speed>", "Flick starting at an element", 4, 1,
		func(ctx context.Context, ts *touch.TouchScreen, s *session, args []string, n []int) (*touch.TouchScreen, error) {
			return ts.FlickFromElement(ctx, s.element(args[0]), n[0], n[1], n[2])
		}},
	{"scroll <xoffset> <yoffset>", "Scroll by the given offsets", 2, 0,
		func(ctx context.Context, ts *touch.TouchScreen, _ *session, _ []string, n []int) (*touch.TouchScreen, error) {
			return ts.Scroll(ctx, n[0], n[1])
		}},
	{"scroll-element <element> <xoffset> <yoffset>", "Scroll starting at an element", 3, 1,
		func(ctx context.Context, ts *touch.TouchScreen, s *session, args []string, n []int) (*touch.TouchScreen, error) {
			return ts.ScrollFromElement(ctx, s.element(args[0]), n[0], n[1])
		}},
}

const negativeArgsHelp = `Flags go before the first argument. Put -- in front of a leading
negative number so it is not read as a flag:

  remotedriver flick -- -300 150`

func gestureCommands(v *viper.Viper) []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(gestures))
	for _, g := range gestures {
		g := g
		argsCheck := cobra.MinimumNArgs(1)
		if g.args >= 0 {
			argsCheck = cobra.ExactArgs(g.args)
		}
		c := &cobra.Command{
			Use:   g.use,
			Short: g.short,
			Long:  g.short + ".\n\n" + negativeArgsHelp,
			Args:  argsCheck,
			RunE: func(cmd *cobra.Command, args []string) error {
				elems := g.elems
				if elems < 0 {
					elems = len(args)
				}
				nums, err := parseInts(args[elems:])
				if err != nil {
					return err
				}
				return withSession(v, func(ctx context.Context, s *session) error {
					_, err := g.run(ctx, touch.New(s.exec, s.dialect), s, args[:elems], nums)
					if err != nil {
						return err
					}
					fmt.Printf("✓ %s %v\n", cmd.Name(), args)
					return nil
				})
			},
		}
		// integers after the first positional may be negative
		c.Flags().SetInterspersed(false)
		cmds = append(cmds, c)
	}
	return cmds
}

func parseInts(args []string) ([]int, error) {
	nums := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", a)
		}
		nums[i] = n
	}
	return nums, nil
}

func newTimeoutsCmd(v *viper.Viper) *cobra.Command {
	var implicit, script, pageLoad float64

	cmd := &cobra.Command{
		Use:   "timeouts",
		Short: "Set implicit wait, script and page load timeouts (seconds)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var settings timeouts.Settings
			if cmd.Flags().Changed("implicit") {
				settings.Implicit = &implicit
			}
			if cmd.Flags().Changed("script") {
				settings.Script = &script
			}
			if cmd.Flags().Changed("page-load") {
				settings.PageLoad = &pageLoad
			}
			if settings == (timeouts.Settings{}) {
				return fmt.Errorf("set at least one of --implicit, --script, --page-load")
			}

			return withSession(v, func(ctx context.Context, s *session) error {
				if _, err := timeouts.New(s.exec, s.dialect).Apply(ctx, settings); err != nil {
					return err
				}
				fmt.Println("✓ timeouts applied")
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&implicit, "implicit", 0, "Implicit element wait in seconds")
	cmd.Flags().Float64Var(&script, "script", 0, "Async script timeout in seconds")
	cmd.Flags().Float64Var(&pageLoad, "page-load", 0, "Page load timeout in seconds")
	return cmd
}

func newTargetsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List tappable elements of the page (browser mode)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(v, func(ctx context.Context, s *session) error {
				if s.browser == nil {
					return fmt.Errorf("targets needs --browser")
				}
				targets, err := s.browser.Targets(ctx)
				if err != nil {
					return err
				}
				for i, t := range targets {
					fmt.Printf("  [%d] %-8s %s @ (%d, %d) %dx%d %q\n",
						i+1, t.Type, t.Selector, t.X, t.Y, t.Width, t.Height, t.Text)
				}
				return nil
			})
		},
	}
}
