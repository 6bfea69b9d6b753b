package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/todo-byoa/internal/bootstrap"
)

const (
	sessionScanCount = 1000
	sessionDelBatch  = 100
)

type clearSessionsOptions struct {
	Prefix string
	DryRun bool
	Yes    bool
}

func runClearSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseClearSessionsFlags(args, cmdCtx.Config.Redis.KeyPrefix)
	if err != nil {
		return err
	}
	if !opts.DryRun && !opts.Yes {
		if confirmErr := requireConfirmation(os.Stdin, os.Stderr,
			fmt.Sprintf("every session under %q will be deleted and all users signed out.", opts.Prefix),
			"yes",
		); confirmErr != nil {
			return confirmErr
		}
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 2*time.Minute)
	defer cancel()

	client, err := bootstrap.ConnectRedis(ctx, cmdCtx.Config.Redis, cmdCtx.Logger)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	deleted, err := purgeSessions(ctx, client, cmdCtx.Logger, opts)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Info("clear sessions complete", "matched", deleted, "dry_run", opts.DryRun)
	return nil
}

func parseClearSessionsFlags(args []string, defaultPrefix string) (clearSessionsOptions, error) {
	fs := flag.NewFlagSet("clear-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts clearSessionsOptions
	fs.StringVar(&opts.Prefix, "prefix", defaultPrefix, "Session key prefix to clear")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Count matching sessions without deleting them")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return clearSessionsOptions{}, err
	}
	if opts.Prefix == "" {
		return clearSessionsOptions{}, errors.New("--prefix cannot be empty")
	}
	return opts, nil
}

// purgeSessions deletes every key under opts.Prefix and returns how many matched.
// A cluster client is scanned on every master and its keys are unlinked one per command,
// since a multi-key DEL across hash slots fails with CROSSSLOT.
func purgeSessions(
	ctx context.Context,
	client redis.UniversalClient,
	logger *slog.Logger,
	opts clearSessionsOptions,
) (int, error) {
	pattern := opts.Prefix + "*"
	logger.Info("scanning redis", "pattern", pattern, "dry_run", opts.DryRun)

	cluster, isCluster := client.(*redis.ClusterClient)

	var keys []string
	var err error
	if isCluster {
		keys, err = scanClusterKeys(ctx, cluster, pattern)
	} else {
		keys, err = scanKeys(ctx, client, pattern)
	}
	if err != nil {
		return 0, err
	}
	if opts.DryRun || len(keys) == 0 {
		return len(keys), nil
	}

	var deleted int
	if isCluster {
		deleted, err = unlinkEach(ctx, cluster, keys)
	} else {
		deleted, err = deleteBatched(ctx, client, keys)
	}
	if err != nil {
		return deleted, err
	}
	logger.Info("redis keys deleted", "count", deleted)
	return deleted, nil
}

func scanKeys(ctx context.Context, node redis.Cmdable, pattern string) ([]string, error) {
	iter := node.Scan(ctx, 0, pattern, sessionScanCount).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan redis: %w", err)
	}
	return keys, nil
}

func scanClusterKeys(ctx context.Context, cluster *redis.ClusterClient, pattern string) ([]string, error) {
	var (
		mu   sync.Mutex
		keys []string
	)
	err := cluster.ForEachMaster(ctx, func(ctx context.Context, node *redis.Client) error {
		nodeKeys, err := scanKeys(ctx, node, pattern)
		if err != nil {
			return err
		}
		mu.Lock()
		keys = append(keys, nodeKeys...)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func deleteBatched(ctx context.Context, client redis.Cmdable, keys []string) (int, error) {
	for start := 0; start < len(keys); start += sessionDelBatch {
		end := min(start+sessionDelBatch, len(keys))
		if err := client.Del(ctx, keys[start:end]...).Err(); err != nil {
			return start, fmt.Errorf("delete redis keys: %w", err)
		}
	}
	return len(keys), nil
}

// unlinkEach pipelines one UNLINK per key so no command spans hash slots.
func unlinkEach(ctx context.Context, client redis.Cmdable, keys []string) (int, error) {
	for start := 0; start < len(keys); start += sessionDelBatch {
		end := min(start+sessionDelBatch, len(keys))
		pipe := client.Pipeline()
		for _, key := range keys[start:end] {
			pipe.Unlink(ctx, key)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return start, fmt.Errorf("unlink redis keys: %w", err)
		}
	}
	return len(keys), nil
}
