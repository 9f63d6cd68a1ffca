package main

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"forum-service/internal/forum"
	"forum-service/internal/tui"
)

func newThreadsCmd(s *session) *cobra.Command {
	var sortKey, typeFilter, query string

	cmd := &cobra.Command{
		Use:   "threads",
		Short: "List threads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := forum.ParseSortKey(sortKey)
			if err != nil {
				return err
			}
			filter, err := forum.ParseTypeFilter(typeFilter)
			if err != nil {
				return err
			}

			if err := s.lifecycle.RefreshThreads(cmd.Context()); err != nil {
				return err
			}
			s.lifecycle.SetCriteria(forum.Criteria{Query: query, Type: filter, Sort: key})

			out := cmd.OutOrStdout()
			threads := s.lifecycle.Threads()
			if len(threads) == 0 {
				fmt.Fprintln(out, "No threads")
				return nil
			}
			viewer := s.viewer()
			for _, t := range threads {
				fmt.Fprintf(out, "%-40s %s\n", t.Slug, s.styles.ThreadLine(t, viewer))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sortKey, "sort", string(forum.SortLatest), "latest, oldest, most-upvotes or most-comments")
	cmd.Flags().StringVar(&typeFilter, "type", string(forum.TypeAll), "all, discussion, resource or announcement")
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive search over title, body, author and tags")
	return cmd
}

func newShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Show a thread with its comment tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			thread, err := s.lifecycle.OpenThread(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tree, err := s.lifecycle.LoadComments(cmd.Context(), thread.ID)
			if err != nil {
				return err
			}
			printThread(cmd.OutOrStdout(), s, thread, tree)
			return nil
		},
	}
}

func newNewThreadCmd(s *session) *cobra.Command {
	var draft forum.ThreadDraft
	var threadType string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a thread",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft.Type = forum.ThreadType(threadType)
			thread, err := s.lifecycle.CreateThread(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", thread.Slug)
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.Title, "title", "", "thread title")
	cmd.Flags().StringVar(&draft.Body, "body", "", "thread body (HTML allowed)")
	cmd.Flags().StringVar(&threadType, "type", string(forum.ThreadTypeDiscussion), "discussion, resource or announcement")
	cmd.Flags().StringSliceVar(&draft.TagNames, "tag", nil, "tag name, repeatable; missing tags are created")
	return cmd
}

func newEditThreadCmd(s *session) *cobra.Command {
	var draft forum.ThreadDraft
	var threadType string

	cmd := &cobra.Command{
		Use:   "edit <slug>",
		Short: "Edit a thread you wrote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := s.lifecycle.OpenThread(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("title") {
				draft.Title = current.Title
			}
			if !cmd.Flags().Changed("body") {
				draft.Body = current.Body
			}
			draft.Type = current.Type
			if cmd.Flags().Changed("type") {
				draft.Type = forum.ThreadType(threadType)
			}
			if !cmd.Flags().Changed("tag") {
				draft.TagNames = nil
				for _, tag := range current.Tags {
					draft.TagNames = append(draft.TagNames, tag.Name)
				}
			}

			thread, err := s.lifecycle.EditThread(cmd.Context(), current.ID, draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", thread.Slug)
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.Title, "title", "", "new title")
	cmd.Flags().StringVar(&draft.Body, "body", "", "new body")
	cmd.Flags().StringVar(&threadType, "type", "", "new type")
	cmd.Flags().StringSliceVar(&draft.TagNames, "tag", nil, "replacement tag names")
	return cmd
}

func newCommentCmd(s *session) *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "comment <slug> <body>",
		Short: "Comment on a thread, or reply with --parent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var parentID *uuid.UUID
			if parent != "" {
				id, err := uuid.Parse(parent)
				if err != nil {
					return fmt.Errorf("invalid --parent: %w", err)
				}
				parentID = &id
			}

			thread, err := s.lifecycle.OpenThread(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if _, err := s.lifecycle.LoadComments(cmd.Context(), thread.ID); err != nil {
				return err
			}
			comment, err := s.lifecycle.PostComment(cmd.Context(), thread.ID, args[1], parentID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Posted %s\n", comment.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "ID of the comment to reply to")
	return cmd
}

func newEditCommentCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "edit-comment <slug> <comment-id> <body>",
		Short: "Edit a comment you wrote",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[1])
			if err != nil {
				return fmt.Errorf("invalid comment id: %w", err)
			}
			thread, err := s.lifecycle.OpenThread(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if _, err := s.lifecycle.LoadComments(cmd.Context(), thread.ID); err != nil {
				return err
			}
			if _, err := s.lifecycle.EditComment(cmd.Context(), id, args[2]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", id)
			return nil
		},
	}
}

func newVoteCmd(s *session) *cobra.Command {
	var commentID string

	cmd := &cobra.Command{
		Use:   "vote <slug>",
		Short: "Toggle your upvote on a thread, or on one of its comments with --comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			thread, err := s.lifecycle.OpenThread(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			target := forum.ThreadTarget(thread.ID)
			if commentID != "" {
				id, err := uuid.Parse(commentID)
				if err != nil {
					return fmt.Errorf("invalid --comment: %w", err)
				}
				if _, err := s.lifecycle.LoadComments(cmd.Context(), thread.ID); err != nil {
					return err
				}
				target = forum.CommentTarget(id)
			}

			res, err := s.lifecycle.ToggleVote(cmd.Context(), target)
			if err != nil {
				return err
			}
			state := "removed"
			if res.Upvoted {
				state = "added"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Upvote %s, %d total\n", state, res.Count)
			return nil
		},
	}

	cmd.Flags().StringVar(&commentID, "comment", "", "ID of the comment to vote on")
	return cmd
}

func newTagsCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := s.client.ListTags(cmd.Context())
			if err != nil {
				return err
			}
			for _, tag := range tags {
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s %s\n", tag.Slug, tag.Name)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "resolve <name>",
		Short: "Find a tag by name, creating it when missing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := s.lifecycle.Tags().Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", tag.ID, tag.Slug)
			return nil
		},
	})
	return cmd
}

func newBrowseCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(tui.NewBrowser(cmd.Context(), s.lifecycle), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err := p.Run()
			return err
		},
	}
}

func printThread(out io.Writer, s *session, thread forum.Thread, tree []forum.CommentNode) {
	fmt.Fprintln(out, s.styles.ThreadDetail(thread))
	viewer := s.viewer()
	for _, c := range tui.Flatten(tree) {
		fmt.Fprintf(out, "%s  %s\n", s.styles.CommentLine(c, viewer), s.styles.Dim.Render(c.Comment.ID.String()))
	}
}
