package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/staranto/menuctl/internal/meta"
	"github.com/urfave/cli/v3"
)

const bashCompletionScript = `# bash completion for menuctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_menuctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "ls add rename soldout rm ui diff completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local categories="espresso frappuccino blended teavana desert"
    local backends="remote file redis s3 sqlite"
    local common="--color -c --filter -f --output -o --sort -s --titles -t"
    local be="--backend -b --url --token --timeout --key --data-dir --redis-url --s3-bucket --s3-prefix --s3-region --s3-profile --s3-endpoint --sqlite-path --allow-duplicates"

    case "$cmd" in
        ls)
            local opts="$common $be --all -A"
            ;;
        add|rename|soldout|rm)
            local opts="$common $be"
            ;;
        ui)
            local opts="$be"
            ;;
        diff)
            local opts="$be --against --color -c --ids"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --backend|-b|--against)
            COMPREPLY=( $(compgen -W "$backends" -- "$cur") )
            return 0
            ;;
    esac

    # The first positional after the subcommand is the category.
    if [[ "$cur" != -* && ${COMP_CWORD} -eq 2 ]]; then
        COMPREPLY=( $(compgen -W "$categories" -- "$cur") )
        return 0
    fi

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _menuctl menuctl
`

const zshCompletionScript = `#compdef menuctl

_menuctl() {
  local -a cmds
  cmds=(
    'ls:list menu items'
    'add:add a menu item'
    'rename:rename a menu item'
    'soldout:toggle whether a menu item is sold out'
    'rm:remove a menu item'
    'ui:interactive menu editor'
    'diff:compare a category across two backends'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  local -a be
  be=(
  '(-b --backend)'{-b,--backend}'[backend]:backend:(remote file redis s3 sqlite)'
  '--url[menu api url]:url'
  '--token[menu api token]:token'
  '--timeout[request timeout]:duration'
  '--key[snapshot key]:key'
  '--data-dir[snapshot directory]:dir:_directories'
  '--redis-url[redis url]:url'
  '--s3-bucket[s3 bucket]:bucket'
  '--s3-prefix[s3 key prefix]:prefix'
  '--s3-region[s3 region]:region'
  '--s3-profile[aws profile]:profile'
  '--s3-endpoint[s3 endpoint]:url'
  '--sqlite-path[sqlite database]:file:_files'
  '--allow-duplicates[allow duplicate names]'
  )

  local category='1:category:(espresso frappuccino blended teavana desert)'

  if (( CURRENT == 2 )); then
    _describe -t commands 'menuctl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    ls)
      _arguments -C $common $be '(-A --all)'{-A,--all}'[every category]' "::${category#1:}"
      ;;
    add|rename|soldout|rm)
      _arguments -C $common $be "$category" '*:arg'
      ;;
    ui)
      _arguments -C $be "::${category#1:}"
      ;;
    diff)
      _arguments -C $be \
        '--against[backend to compare with]:backend:(remote file redis s3 sqlite)' \
        '(-c --color)'{-c,--color}'[colored diff]' \
        '--ids[compare ids]' \
        "$category"
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _menuctl menuctl
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := writer(cmd)
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(w, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(w, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: menuctl completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "menuctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
