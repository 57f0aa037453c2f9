package pkg

import (
	"github.com/hashicorp/go-hclog"

	"github.com/l2terrain/l2extract/pkg/logging"
	"github.com/l2terrain/l2extract/pkg/terrain"
	"github.com/l2terrain/l2extract/pkg/unreal/crypto"
	"github.com/l2terrain/l2extract/pkg/unreal/pkgfile"
)

func BuildTerrainCache(dir string, open pkgfile.Opener) (*terrain.Cache, error) {
	logger := logging.NewLogger("l2extract", logging.GetLogLevel(), nil)
	return BuildTerrainCacheWithLogger(dir, open, logger)
}

func BuildTerrainCacheWithLogger(dir string, open pkgfile.Opener, logger hclog.Logger) (*terrain.Cache, error) {
	cache := terrain.NewCache(logger)
	if err := cache.BuildDir(dir, open); err != nil {
		return nil, err
	}
	cache.Freeze()
	return cache, nil
}

func DecryptPackage(src, dst string) error {
	return crypto.DecryptFile(src, dst)
}

func ExtractHeightmapTile(exportData []byte, width, height int, sourceFilename string) (*terrain.Tile, error) {
	return terrain.ExtractTile(exportData, width, height, sourceFilename)
}
