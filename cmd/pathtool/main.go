// pathtool is a CLI utility for inspecting room graphs and planning paths.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/tilenav/internal/config"
	"github.com/Faultbox/tilenav/internal/graph"
	"github.com/Faultbox/tilenav/internal/logger"
	"github.com/Faultbox/tilenav/internal/metrics"
	"github.com/Faultbox/tilenav/internal/search"
	"github.com/Faultbox/tilenav/internal/trace"
	"github.com/Faultbox/tilenav/internal/world"
	"github.com/Faultbox/tilenav/pkg/math"
	"github.com/Faultbox/tilenav/pkg/movement"
)

func main() {
	config.ParseFlags()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	logCfg := logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Console: true}
	if cfg.Logging.LogFile != "" {
		logCfg.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithConfig(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	profile, ok := cfg.Profile(config.ProfileName())
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown profile: %s\n", config.ProfileName())
		os.Exit(1)
	}

	t := &tool{cfg: cfg, profile: profile}
	if cfg.Metrics.Enabled {
		t.metrics = metrics.NewRegistry()
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "info":
		err = t.cmdInfo(args)
	case "graph":
		err = t.cmdGraph(args)
	case "trace":
		err = t.cmdTrace(args)
	case "path":
		err = t.cmdPath(args)
	case "from":
		err = t.cmdFrom(args)
	case "nearest":
		err = t.cmdNearest(args)
	case "reach":
		err = t.cmdReach(args)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		os.Exit(1)
	}

	if t.metrics != nil {
		fmt.Println()
		if err := t.metrics.WriteText(os.Stdout); err != nil {
			logger.Error("writing metrics", zap.Error(err))
		}
	}
}

func printUsage() {
	fmt.Println(`pathtool - platformer room graph and path utility

Usage:
  pathtool [flags] <command> [options]

Commands:
  info <room.yaml>                         Show room and graph statistics
  graph <room.yaml> <x> <y>                List static edges of a node
  trace <room.yaml> <x> <y>                List traced edges of a node
  path <room.yaml> <x> <y> <gx> <gy>       Plan a path to a goal
  from <room.yaml> <gx> <gy> <x,y>...      Plan from the best of several starts
  nearest <room.yaml> <x> <y> <kind>       Plan to the nearest node of a kind
  reach <room.yaml> <x> <y>                List every node reachable from a node

Flags:
  -config <file>      Config file (default ./config.yaml or user config dir)
  -profile <name>     Movement profile
  -adrenaline <0..1>  Adrenaline level
  -steps <n>          Search steps per tick (0 runs to completion)
  -metrics            Print prometheus metrics after the command
  -debug              Debug logging

Examples:
  pathtool info rooms/gap.yaml
  pathtool -profile heavy path rooms/gap.yaml 1 6 12 6
  pathtool nearest rooms/shaft.yaml 2 1 Wall`)
}

type tool struct {
	cfg     *config.Config
	profile movement.Profile
	metrics *metrics.Registry
}

func (t *tool) roomOptions() []world.Option {
	opts := []world.Option{
		world.WithLogger(logger.Named("world")),
		world.WithCacheSize(t.cfg.Cache.MaxProfiles),
		world.WithTraceOptions(
			trace.WithLogger(logger.Named("trace")),
			trace.WithSettings(t.cfg.Trace.Settings()),
		),
	}
	if t.metrics != nil {
		opts = append(opts,
			world.WithBuildObserver(t.metrics),
			world.WithCacheObserver(t.metrics),
			world.WithTraceOptions(trace.WithObserver(t.metrics)),
		)
	}
	return opts
}

func (t *tool) searchOptions(extra ...search.Option) []search.Option {
	opts := []search.Option{
		search.WithLogger(logger.Named("search")),
		search.WithHeuristicWeight(t.cfg.Search.HeuristicWeight),
		search.WithMaxExpansions(t.cfg.Search.MaxExpansions),
	}
	if t.metrics != nil {
		opts = append(opts, search.WithRecorder(t.metrics))
	}
	return append(opts, extra...)
}

func (t *tool) loadRoom(path string) (*world.Room, error) {
	return world.NewManager(t.roomOptions()...).LoadRoom(path)
}

// roomAndPos parses "<room.yaml> <x> <y>" from args.
func (t *tool) roomAndPos(args []string, usage string) (*world.Room, graph.Pos, error) {
	if len(args) < 3 {
		return nil, graph.Pos{}, fmt.Errorf("usage: pathtool %s", usage)
	}
	p, err := parsePos(args[1], args[2])
	if err != nil {
		return nil, graph.Pos{}, err
	}
	room, err := t.loadRoom(args[0])
	if err != nil {
		return nil, graph.Pos{}, err
	}
	return room, p, nil
}

func (t *tool) cmdInfo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: pathtool info <room.yaml>")
	}
	room, err := t.loadRoom(args[0])
	if err != nil {
		return err
	}
	s := room.Static()

	kinds := make(map[string]int)
	poles := 0
	s.ForEachNode(func(_ int32, n *graph.Node) {
		kinds[n.Kind.String()]++
		if n.Pole.HasPole() {
			poles++
		}
	})

	fmt.Printf("Room:       %s\n", room.Name)
	fmt.Printf("Size:       %dx%d\n", s.Width(), s.Height())
	fmt.Printf("Gravity:    %.2f\n", room.Grid().GravityAccel())
	fmt.Printf("Nodes:      %d\n", s.NodeCount())
	fmt.Printf("Edges:      %d\n", s.EdgeCount())
	fmt.Printf("Pole nodes: %d\n", poles)
	fmt.Printf("Cost/tile:  %.3f\n", s.CostPerTile())
	fmt.Println()
	fmt.Println("Nodes by kind:")

	type kindStat struct {
		kind  string
		count int
	}
	var stats []kindStat
	for k, c := range kinds {
		stats = append(stats, kindStat{k, c})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].count != stats[j].count {
			return stats[i].count > stats[j].count
		}
		return stats[i].kind < stats[j].kind
	})
	for _, st := range stats {
		fmt.Printf("  %-17s %d\n", st.kind, st.count)
	}

	if diags := s.Diagnostics(); len(diags) > 0 {
		fmt.Println()
		fmt.Println("Diagnostics:")
		for _, d := range diags {
			fmt.Printf("  %s %s\n", d.Pos, d.Message)
		}
	}
	return nil
}

func (t *tool) cmdGraph(args []string) error {
	room, p, err := t.roomAndPos(args, "graph <room.yaml> <x> <y>")
	if err != nil {
		return err
	}
	s := room.Static()
	n := s.Node(p)
	if n == nil {
		return fmt.Errorf("no node at %s", p)
	}
	i := s.Index(p)

	fmt.Printf("%s pole=%s platform=%v\n", n, n.Pole, n.Platform)
	fmt.Println("Out:")
	printEdges(s, s.Out(i), true)
	fmt.Println("In:")
	printEdges(s, s.In(i), false)
	return nil
}

func (t *tool) cmdTrace(args []string) error {
	fs := flag.NewFlagSet("trace", flag.ExitOnError)
	incoming := fs.Bool("in", false, "Trace the whole room and list incoming edges")
	fs.Parse(args)

	room, p, err := t.roomAndPos(fs.Args(), "trace [-in] <room.yaml> <x> <y>")
	if err != nil {
		return err
	}
	d := room.Dynamic(t.profile)
	s := d.Static()
	if s.Node(p) == nil {
		return fmt.Errorf("no node at %s", p)
	}
	i := s.Index(p)

	fmt.Printf("Profile: %s (adrenaline %.2f)\n", t.profile.Name, t.profile.Adrenaline)
	if *incoming {
		d.TraceAll()
		fmt.Println("In:")
		printEdges(s, d.In(i), false)
	} else {
		fmt.Println("Out:")
		printEdges(s, d.Out(i), true)
	}
	fmt.Printf("Traced %d nodes, %d edges\n", d.TracedCount(), d.EdgeCount())
	return nil
}

func (t *tool) cmdPath(args []string) error {
	if len(args) < 5 {
		return fmt.Errorf("usage: pathtool path <room.yaml> <x> <y> <gx> <gy>")
	}
	start, err := parsePos(args[1], args[2])
	if err != nil {
		return err
	}
	goal, err := parsePos(args[3], args[4])
	if err != nil {
		return err
	}
	room, err := t.loadRoom(args[0])
	if err != nil {
		return err
	}

	nav := world.NewNavigator(room, t.profile, t.cfg.Search.StepsPerTick, t.searchOptions()...)
	nav.MoveTo(start, goal)
	ticks := 0
	for nav.Searching() {
		nav.Update()
		ticks++
	}
	if err := nav.Err(); err != nil {
		return err
	}
	if ticks > 0 {
		fmt.Printf("Planned over %d ticks\n", ticks)
	}
	printPath(nav.Path())
	return nil
}

func (t *tool) cmdFrom(args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("usage: pathtool from <room.yaml> <gx> <gy> <x,y>...")
	}
	goal, err := parsePos(args[1], args[2])
	if err != nil {
		return err
	}
	var starts []graph.Pos
	for _, a := range args[3:] {
		xs, ys, ok := strings.Cut(a, ",")
		if !ok {
			return fmt.Errorf("start %q is not x,y", a)
		}
		p, err := parsePos(xs, ys)
		if err != nil {
			return err
		}
		starts = append(starts, p)
	}
	room, err := t.loadRoom(args[0])
	if err != nil {
		return err
	}

	path, err := search.FindPathBackward(room.Dynamic(t.profile), goal, starts, t.searchOptions()...)
	if err != nil {
		return err
	}
	printPath(path)
	return nil
}

func (t *tool) cmdNearest(args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("usage: pathtool nearest <room.yaml> <x> <y> <kind>")
	}
	kind, ok := parseKind(args[3])
	if !ok {
		return fmt.Errorf("unknown node kind %q", args[3])
	}
	room, start, err := t.roomAndPos(args[:3], "nearest <room.yaml> <x> <y> <kind>")
	if err != nil {
		return err
	}

	pred := func(n *graph.Node) bool { return n.Kind == kind && n.Pos != start }
	dest, path, err := search.FindPathUntil(room.Dynamic(t.profile), start, pred, t.searchOptions()...)
	if err != nil {
		return err
	}
	if path == nil {
		fmt.Printf("No %s node reachable from %s\n", kind, start)
		return nil
	}
	fmt.Printf("Nearest %s: %s\n", kind, dest)
	printPath(path)
	return nil
}

func (t *tool) cmdReach(args []string) error {
	room, start, err := t.roomAndPos(args, "reach <room.yaml> <x> <y>")
	if err != nil {
		return err
	}

	var reached []graph.Pos
	hook := search.WithExpandHook(func(p graph.Pos) { reached = append(reached, p) })
	never := func(*graph.Node) bool { return false }
	if _, _, err := search.FindPathUntil(room.Dynamic(t.profile), start, never, t.searchOptions(hook)...); err != nil {
		return err
	}

	sort.Slice(reached, func(i, j int) bool {
		if reached[i].Y != reached[j].Y {
			return reached[i].Y < reached[j].Y
		}
		return reached[i].X < reached[j].X
	})
	s := room.Static()
	for _, p := range reached {
		fmt.Printf("  %s\n", s.Node(p))
	}
	fmt.Printf("%d of %d nodes reachable from %s\n", len(reached), s.NodeCount(), start)
	return nil
}

func printEdges(s *graph.Static, edges []graph.Edge, out bool) {
	if len(edges) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, e := range edges {
		other := e.To
		if !out {
			other = e.From
		}
		fmt.Printf("  %-28s %-10s %.2f\n", e.Move, s.PosOf(other), e.Weight)
	}
}

func printPath(p *search.Path) {
	if p == nil {
		fmt.Println("No path")
		return
	}
	fmt.Printf("Cost:  %.2f\n", p.Cost)
	fmt.Printf("Steps: %d\n", len(p.Moves))
	fmt.Println(p)
}

func parsePos(xs, ys string) (graph.Pos, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return graph.Pos{}, fmt.Errorf("bad x %q: %w", xs, err)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return graph.Pos{}, fmt.Errorf("bad y %q: %w", ys, err)
	}
	return math.Pt(x, y), nil
}

func parseKind(name string) (graph.NodeKind, bool) {
	for k := graph.NodeAir; k <= graph.NodeWall; k++ {
		if strings.EqualFold(k.String(), name) {
			return k, true
		}
	}
	return 0, false
}
