// Binary atlasweb serves a browsable view of a source atlas and, when
// present, the split per-animation outputs.
package main

import (
	"flag"
	"net/http"
	"os"

	"badc0de.net/pkg/flagutil/v1"

	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	_ "golang.org/x/net/trace"

	"badc0de.net/pkg/spine-split/paths"
	"badc0de.net/pkg/spine-split/pipeline"
	"badc0de.net/pkg/spine-split/web"
)

var (
	listenAddress = flag.String("listen_address", ":8080", "http listen address for atlasweb")
	inputDir      = flag.String("input_dir", "", "directory holding the shared .atlas and the skeleton documents; overrides --atlas_path discovery")
	outputDir     = flag.String("output_dir", "", "directory holding split outputs, if any")

	atlasPath string
)

func main() {
	paths.SetupFilePathFlag("shared.atlas", "atlas_path", &atlasPath)
	flagutil.Parse()

	var anims []pipeline.Animation
	if *inputDir != "" {
		var err error
		atlasPath, anims, err = pipeline.Discover(*inputDir)
		if err != nil {
			glog.Exitf("discovering inputs: %v", err)
		}
	}
	if atlasPath == "" {
		glog.Exit("no atlas found; pass --atlas_path or --input_dir")
	}

	src, err := pipeline.LoadSource(atlasPath)
	if err != nil {
		glog.Exitf("loading atlas: %v", err)
	}

	r := mux.NewRouter()
	web.NewHandler(src, *outputDir, anims).RegisterRoutes(r)

	glog.Infof("atlasweb listening on %s", *listenAddress)
	glog.Fatal(http.ListenAndServe(*listenAddress, handlers.LoggingHandler(os.Stderr, r)))
}
