package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhishaiv/AI-Study-Master/internal/catalog"
	chatsess "github.com/abhishaiv/AI-Study-Master/internal/chat"
	"github.com/abhishaiv/AI-Study-Master/internal/lessons"
	"github.com/abhishaiv/AI-Study-Master/internal/quiz"
	"github.com/abhishaiv/AI-Study-Master/internal/review"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List course topics with your progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOptions{stderrLog: true})
		if err != nil {
			return err
		}
		defer e.Close()

		p := e.progress.Load(cmd.Context())
		fmt.Printf("%-28s  %-8s  %-12s  %-7s  %s\n", "ID", "Label", "Category", "Studied", "Best")
		fmt.Println(strings.Repeat("─", 72))
		for _, t := range e.catalog.All() {
			studied := ""
			if p.HasCompleted(t.ID) {
				studied = "✓"
			}
			best := "-"
			if s, ok := p.BestScore(t.ID); ok {
				best = fmt.Sprintf("%d%%", s)
			}
			fmt.Printf("%-28s  %-8s  %-12s  %-7s  %s\n",
				truncate(t.ID, 28), e.catalog.ShortLabel(t.ID), t.Category, studied, best)
		}
		return nil
	},
}

// lookupTopic resolves an id argument against the catalog.
func lookupTopic(c *catalog.Catalog, id string) (catalog.Topic, error) {
	t, ok := c.Lookup(id)
	if !ok {
		return catalog.Topic{}, fmt.Errorf("topic %q not found (see `studymentor topics`)", id)
	}
	return t, nil
}

var lessonCmd = &cobra.Command{
	Use:   "lesson <topic-id>",
	Short: "Generate and print the lesson for a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOptions{provider: true, stderrLog: true})
		if err != nil {
			return err
		}
		defer e.Close()

		t, err := lookupTopic(e.catalog, args[0])
		if err != nil {
			return err
		}
		l, err := e.lessons().Generate(cmd.Context(), t)
		if err != nil {
			e.logger.Warn("lesson generation failed", "topic", t.ID, "error", err)
			return errors.New(lessons.FailureText)
		}
		if _, err := e.progress.MarkTopicStudied(cmd.Context(), t.ID); err != nil {
			e.logger.Warn("mark studied failed", "topic", t.ID, "error", err)
		}
		printLesson(os.Stdout, t, l)
		return nil
	},
}

func printLesson(w io.Writer, t catalog.Topic, l *lessons.Lesson) {
	fmt.Fprintf(w, "# %s\n\n", t.Title)
	fmt.Fprintf(w, "## Overview\n\n%s\n\n", l.Overview)
	fmt.Fprintln(w, "## Key concepts")
	for _, kc := range l.KeyConcepts {
		fmt.Fprintf(w, "\n### %s\n\n%s\n", kc.Title, kc.Content)
	}
	if l.HasCode() {
		fmt.Fprintf(w, "\n## Code example\n\n%s\n", l.CodeExample)
	}
	if len(l.Pitfalls) > 0 {
		fmt.Fprintln(w, "\n## Common pitfalls")
		for _, p := range l.Pitfalls {
			fmt.Fprintf(w, "- %s\n", p)
		}
	}
	if len(l.Checklist) > 0 {
		fmt.Fprintln(w, "\n## Practice checklist")
		for _, c := range l.Checklist {
			fmt.Fprintf(w, "- [ ] %s\n", c)
		}
	}
}

var quizCmd = &cobra.Command{
	Use:   "quiz <topic-id>",
	Short: "Take a quiz on a topic, answering on stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOptions{provider: true, stderrLog: true})
		if err != nil {
			return err
		}
		defer e.Close()

		t, err := lookupTopic(e.catalog, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Generating quiz for %s...\n", t.Title)

		r := quiz.NewRunner(t.ID, e.progress)
		r.Load(e.quizzes().Generate(cmd.Context(), t))
		if r.Phase() == quiz.PhaseFailed {
			e.logger.Warn("quiz generation failed", "topic", t.ID, "error", r.Err())
			return errors.New(quiz.FailureText)
		}
		return runLineQuiz(cmd, r, os.Stdin, os.Stdout)
	},
}

// runLineQuiz drives r from numbered answers read line by line.
func runLineQuiz(cmd *cobra.Command, r *quiz.Runner, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for r.Phase() == quiz.PhaseInProgress {
		q, _ := r.Current()
		fmt.Fprintf(out, "\nQuestion %d of %d\n%s\n", r.Index()+1, r.Total(), q.Text)
		for i, o := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, o)
		}

		for !r.Answered() {
			fmt.Fprint(out, "> ")
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return fmt.Errorf("read answer: %w", err)
				}
				return errors.New("quiz abandoned")
			}
			n, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
			if err != nil || r.Select(n-1) != nil {
				fmt.Fprintf(out, "Enter a number from 1 to %d.\n", len(q.Options))
				continue
			}
			correct, err := r.Submit()
			if err != nil {
				return err
			}
			if correct {
				fmt.Fprintln(out, "Correct!")
			} else {
				fmt.Fprintf(out, "Incorrect. The answer was %d) %s\n", q.CorrectIndex+1, q.Options[q.CorrectIndex])
			}
			if q.Explanation != "" {
				fmt.Fprintln(out, q.Explanation)
			}
		}
		if err := r.Advance(cmd.Context()); err != nil {
			return err
		}
	}

	pct, err := r.Percentage()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nScore: %d/%d (%d%%)\n", r.Score(), r.Total(), pct)
	if r.CommitErr() != nil {
		fmt.Fprintln(out, "Your score could not be saved.")
	}
	return nil
}

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask the mentor a question and stream the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOptions{provider: true, stderrLog: true})
		if err != nil {
			return err
		}
		defer e.Close()

		sess := chatsess.NewSession(e.provider, e.catalog, chatsess.WithLogger(e.logger))
		reply, err := sess.Begin(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		printed := 0
		err = sess.Relay(cmd.Context(), reply, func(m chatsess.Message) {
			fmt.Print(m.Text[printed:])
			printed = len(m.Text)
		})
		fmt.Println()
		if err != nil {
			e.logger.Warn("chat stream failed", "error", err)
			return errors.New(chatsess.ErrorText)
		}
		return nil
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Get mentor feedback on an assignment draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		promptFile, _ := cmd.Flags().GetString("prompt-file")
		draftFile, _ := cmd.Flags().GetString("draft-file")

		prompt, err := os.ReadFile(promptFile)
		if err != nil {
			return fmt.Errorf("read prompt: %w", err)
		}
		draft, err := os.ReadFile(draftFile)
		if err != nil {
			return fmt.Errorf("read draft: %w", err)
		}

		e, err := openEnv(cmd, envOptions{provider: true, stderrLog: true})
		if err != nil {
			return err
		}
		defer e.Close()

		feedback, err := e.reviewer().Review(cmd.Context(), string(prompt), string(draft))
		if errors.Is(err, review.ErrEmptyInput) {
			return err
		}
		if err != nil {
			e.logger.Warn("review failed", "error", err)
			return errors.New(review.FailureText)
		}
		fmt.Println(feedback)
		return nil
	},
}

func init() {
	reviewCmd.Flags().String("prompt-file", "", "File holding the assignment prompt")
	reviewCmd.Flags().String("draft-file", "", "File holding your draft")
	_ = reviewCmd.MarkFlagRequired("prompt-file")
	_ = reviewCmd.MarkFlagRequired("draft-file")
}
