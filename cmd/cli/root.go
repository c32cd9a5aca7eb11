package main

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/studystack/paperdex"
	"github.com/studystack/paperdex/bleve"
	"github.com/studystack/paperdex/bolt"
	"github.com/studystack/paperdex/log"
	"github.com/studystack/paperdex/search"
)

var (
	// flags
	env        string
	configFile string

	// logger
	logger log.Logger

	// configuration
	config Configuration

	// drivers
	boltDriver *bolt.Driver

	// stores
	paperStore    *bolt.PaperStore
	userDataStore *bolt.UserDataStore

	// indices
	paperIndex *bleve.PaperIndex

	// search pipeline
	parser      *search.Parser
	ranker      *search.Ranker
	executor    *search.Executor
	resultCache *search.ResultCache
)

type Configuration struct {
	Bolt struct {
		Store string `toml:"store"`
	} `toml:"bolt"`
	Bleve struct {
		Store string `toml:"store"`
	} `toml:"bleve"`
	HTTP struct {
		Addr string `toml:"addr"`
	} `toml:"http"`
	Search struct {
		PageSize         int      `toml:"page_size"`
		WindowMultiplier int      `toml:"window_multiplier"`
		CacheTTLSeconds  int      `toml:"cache_ttl_seconds"`
		StopWords        []string `toml:"stop_words"`
	} `toml:"search"`
	Ranking struct {
		HalfLifeDays int `toml:"half_life_days"`
	} `toml:"ranking"`
}

func init() {
	RootCmd.PersistentFlags().StringVar(&env, "env", "dev", "environment")
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration file")
}

var RootCmd = cobra.Command{
	Use:   "paperdex",
	Short: "Search and share past papers",
	Long:  "Search and share past papers",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = log.New(env)

		if configFile == "" {
			configFile = path.Join("configuration", fmt.Sprintf("config.%s.toml", env))
		}

		cfgData, err := os.ReadFile(configFile)
		if err != nil {
			logger.Fatal("could not read configuration:", err)
		}
		if err := toml.Unmarshal(cfgData, &config); err != nil {
			logger.Fatal("could not unmarshal configuration:", err)
		}

		// Stores
		boltDriver = &bolt.Driver{}
		if err := boltDriver.Open(config.Bolt.Store); err != nil {
			logger.Fatal("could not open store:", err)
		}
		paperStore = &bolt.PaperStore{Driver: boltDriver}
		userDataStore = &bolt.UserDataStore{Driver: boltDriver}

		// Index. A failed open is not fatal: searches fall back to the
		// filtered fetch until the index is back.
		paperIndex = &bleve.PaperIndex{}
		if err := paperIndex.Open(config.Bleve.Store); err != nil {
			logger.Errorf("search index unavailable, searches will use the fallback path: %v", err)
		}

		// Search pipeline
		parser = search.NewParser(config.Search.StopWords...)

		halfLife := search.DefaultHalfLife
		if config.Ranking.HalfLifeDays > 0 {
			halfLife = time.Duration(config.Ranking.HalfLifeDays) * 24 * time.Hour
		}
		ranker = search.NewRanker(halfLife)

		executor = search.NewExecutor(paperIndex, paperStore, ranker, logger)
		executor.WindowMultiplier = config.Search.WindowMultiplier

		if config.Search.CacheTTLSeconds > 0 {
			resultCache = search.NewResultCache(time.Duration(config.Search.CacheTTLSeconds) * time.Second)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if paperIndex != nil {
			paperIndex.Close()
		}
		if boltDriver != nil {
			boltDriver.Close()
		}
	},
}

func pageSize() int {
	if config.Search.PageSize > 0 {
		return config.Search.PageSize
	}
	return search.DefaultPageSize
}

var _ paperdex.PaperStore = (*bolt.PaperStore)(nil)
var _ paperdex.UserDataStore = (*bolt.UserDataStore)(nil)
var _ paperdex.PaperIndex = (*bleve.PaperIndex)(nil)
