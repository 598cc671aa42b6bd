package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/stockgains/docs"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show a topic of the user manual" }
func (*topicCmd) Usage() string {
	return `topic [<topic>...]

  Shows the given topics of the user manual, or the list of topics. '*' shows
  every topic.
`
}

func (*topicCmd) SetFlags(f *flag.FlagSet) {}

func (*topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{docs.Index}
	}
	md, err := docs.GetTopics(topics...)
	if err != nil {
		fmt.Fprintf(f.Output(), "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
