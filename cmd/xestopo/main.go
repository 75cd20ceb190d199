package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"
	"runtime"
	"strconv"
	"syscall"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/encoding/json"

	"github.com/beetlebugorg/xestopo/pkg/mapio"
	"github.com/beetlebugorg/xestopo/pkg/tiles"
)

var (
	// The xestopo version number. Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "xestopo_info",
		Help:        "xestopo information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

// Keeps the config field names readable by the cli package when the binary
// is obfuscated.
var _ = reflect.TypeOf(config{})

type config struct {
	Input       string  `cli:""        env:"XESTOPO_INPUT"        help:"Tile description JSON file; - reads stdin."`
	Output      string  `cli:""        env:"XESTOPO_OUTPUT"       help:"Network JSON output file; empty writes stdout."`
	StoreDir    string  `cli:""        env:"XESTOPO_STORE_DIR"    help:"Directory of the map store; empty keeps maps in memory."`
	List        bool    `cli:""        env:"-"                    help:"List the maps in the store and exit."`
	MetricsFile string  `cli:""        env:"XESTOPO_METRICS_FILE" help:"Write Prometheus metrics to this file when done."`
	Workers     int     `cli:""        env:"XESTOPO_WORKERS"      help:"Number of tiles processed at once."`
	FailFast    bool    `cli:""        env:"XESTOPO_FAIL_FAST"    help:"Stop at the first failed tile."`
	MergeDist   float64 `cli:",hidden" env:"XESTOPO_MERGE_DIST"   help:"Merge junctions closer than this many degrees; 0 disables."`
	DrapePower  bool    `cli:",hidden" env:"XESTOPO_DRAPE_POWER"  help:"Drape only power lines over the terrain."`
	Promote     bool    `cli:",hidden" env:"XESTOPO_PROMOTE"      help:"Turn shape points of chains on land into junctions."`
	CheckGeom   bool    `cli:",hidden" env:"XESTOPO_CHECK_GEOM"   help:"Also check that map edges only meet at vertices."`
	Verbosity   int     `cli:""        env:"XESTOPO_VERBOSITY"    help:"Log verbosity (0-2)."`
	Indent      bool    `cli:""        env:"XESTOPO_INDENT"       help:"Indent the JSON output."`
	Version     bool    `cli:""        env:"-"                    help:"Show version."`
	Help        bool    `cli:""        env:"-"                    help:"Show help."`
}

func main() {
	conf := config{
		Input:     "-",
		Workers:   runtime.NumCPU(),
		MergeDist: 1e-6,
	}

	// set the information gauge to 1, useful for SUM query
	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Builds planar maps and road networks from tile descriptions.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	setupLogging(conf.Verbosity)

	if err := run(ctx, conf); err != nil {
		klog.Errorf("%v", err)
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}

func setupLogging(verbosity int) {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", strconv.Itoa(verbosity))
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})
}

func validateConfig(conf config) error {
	if conf.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d", conf.Workers)
	}
	if conf.MergeDist < 0 {
		return errors.Errorf("merge distance must not be negative, got %v", conf.MergeDist)
	}
	return nil
}

func run(ctx context.Context, conf config) error {
	if err := validateConfig(conf); err != nil {
		return err
	}

	reg := mapio.NewRegistry(terrainNames...)
	storeOpts := mapio.DefaultStoreOptions()
	storeOpts.Dir = conf.StoreDir
	storeOpts.ReadOnly = conf.List && conf.StoreDir != ""
	storeOpts.Registry = reg
	store, err := mapio.OpenStore(storeOpts)
	if err != nil {
		return err
	}
	defer store.Close()

	if conf.List {
		return listMaps(os.Stdout, store)
	}

	in, err := readInput(conf.Input)
	if err != nil {
		return err
	}
	reps, err := in.repTable(reg)
	if err != nil {
		return err
	}

	out, errs := processAll(ctx, &processor{
		store:      store,
		reg:        reg,
		reps:       reps,
		mergeDist:  conf.MergeDist,
		drapePower: conf.DrapePower,
		promote:    conf.Promote,
		checkGeom:  conf.CheckGeom,
	}, in.Tiles, conf)

	if err := writeOutput(conf.Output, conf.Indent, out); err != nil {
		return err
	}
	if conf.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(conf.MetricsFile, prometheus.DefaultGatherer); err != nil {
			return errors.Wrap(err, "writing metrics")
		}
	}
	if len(errs) > 0 {
		return errors.Errorf("%d of %d tiles failed", len(errs), len(in.Tiles))
	}
	return nil
}

func processAll(ctx context.Context, p *processor, tileSpecs []tileSpec, conf config) ([]tileOutput, []error) {
	opts := tiles.DefaultOptions()
	opts.Workers = conf.Workers
	opts.Parallel = conf.Workers > 1
	opts.SkipErrors = !conf.FailFast
	opts.Progress = func(done, total int) {
		klog.V(1).Infof("tiles: %d/%d", done, total)
	}
	return tiles.ProcessTiles(ctx, tileSpecs, p.processTile, opts)
}

func listMaps(w io.Writer, store *mapio.Store) error {
	names, err := store.Names()
	if err != nil {
		return err
	}
	for _, name := range names {
		m, err := store.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d vertices\t%d edges\t%d faces\n",
			name, m.NumVertices(), m.NumHalfedges()/2, m.NumFaces())
	}
	return nil
}

func writeOutput(path string, indent bool, out []tileOutput) error {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return errors.Wrap(err, "encoding output")
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "writing output")
}
