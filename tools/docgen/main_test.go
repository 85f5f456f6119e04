// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleDoc = "# menuctl add\n\n" +
	"## Summary\n\nAdd an item to a category\nand print the category.\n\nMore text.\n\n" +
	"## Examples\n\n```sh\n# Add a latte\nmenuctl add espresso   Latte\n\nmenuctl add teavana Chai\n```\n\n" +
	"## Flags\n\n--backend\n"

func TestSummary(t *testing.T) {
	assert.Equal(t, "Add an item to a category and print the category.", summary(sampleDoc))
	assert.Equal(t, "menuctl ls.", summary("# menuctl ls\n"))
}

func TestExamples(t *testing.T) {
	exs := examples(sampleDoc)
	assert.Equal(t, []example{
		{Desc: "Add a latte", Cmd: "menuctl add espresso Latte"},
		{Desc: "Example", Cmd: "menuctl add teavana Chai"},
	}, exs)
	assert.Nil(t, examples("# menuctl rm\n"))
}

func TestBuildTLDR(t *testing.T) {
	got := buildTLDR("rm", "", nil)
	assert.Contains(t, got, "# menuctl-rm\n\n> menuctl rm\n")
	assert.Contains(t, got, "`menuctl rm --help`")

	p := render("add", []byte(sampleDoc))
	assert.Contains(t, p.tldr, "- Add a latte:\n\n`menuctl add espresso Latte`\n")
	assert.NotEmpty(t, p.man)
}
