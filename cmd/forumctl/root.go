package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"forum-service/internal/client"
	"forum-service/internal/config"
	"forum-service/internal/forum"
	"forum-service/internal/tui"
)

// session is the state shared by every subcommand, built once the flags
// are parsed
type session struct {
	logger    *zap.Logger
	client    *client.ForumClient
	lifecycle *forum.ThreadLifecycle
	styles    *tui.Styles
}

type rootOptions struct {
	configPath string
	baseURL    string
	token      string
	timeout    time.Duration
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	s := &session{}

	rootCmd := &cobra.Command{
		Use:           "forumctl",
		Short:         "Browse and post to a forum-service instance",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.init(opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if s.logger != nil {
				_ = s.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "configs/config.yaml", "path to the YAML configuration file")
	flags.StringVar(&opts.baseURL, "url", "", "forum API base URL (overrides client.base_url and FORUM_API_URL)")
	flags.StringVar(&opts.token, "token", "", "bearer token (overrides client.token and FORUM_TOKEN)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "request timeout")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")

	rootCmd.AddCommand(
		newThreadsCmd(s),
		newShowCmd(s),
		newNewThreadCmd(s),
		newEditThreadCmd(s),
		newCommentCmd(s),
		newEditCommentCmd(s),
		newVoteCmd(s),
		newTagsCmd(s),
		newBrowseCmd(s),
	)
	return rootCmd
}

func (s *session) init(opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	baseURL := cfg.Client.BaseURL
	if opts.baseURL != "" {
		baseURL = opts.baseURL
	}
	token := cfg.Client.Token
	if opts.token != "" {
		token = opts.token
	}
	timeout := cfg.Client.Timeout
	if opts.timeout > 0 {
		timeout = opts.timeout
	}

	s.logger = zap.NewNop()
	if opts.verbose {
		if s.logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}

	identity, err := client.NewTokenIdentity(token)
	if err != nil {
		return err
	}

	s.client = client.NewForumClient(baseURL, token, timeout, s.logger, nil)
	s.lifecycle = forum.NewThreadLifecycle(s.client, identity, s.logger)
	s.styles = tui.NewStyles()
	return nil
}

func (s *session) viewer() *forum.Identity {
	if id, ok := s.lifecycle.Identity().CurrentUser(); ok {
		return &id
	}
	return nil
}
