package main

import (
	"fmt"
	"io"
	"strings"
)

// scriptWriter keeps the first write error so generators can print
// unconditionally and check once.
type scriptWriter struct {
	w   io.Writer
	err error
}

func (s *scriptWriter) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

// commandNames returns the names of cmds separated by spaces.
func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

// flagWords returns every spelling of the flags, long form first.
func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

// globs splits a "*.yaml,*.yml" pattern list.
func globs(pattern string) []string {
	return strings.Split(pattern, ",")
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(w io.Writer, cmds []commandDef) error {
	s := &scriptWriter{w: w}
	names := commandNames(cmds)

	s.printf("# bash completion for slim2md\n")
	s.printf("_slim2md_completions() {\n")
	s.printf("    local cur prev cmd\n")
	s.printf("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	s.printf("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	s.printf("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	s.printf("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	s.printf("        COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") $(compgen -f -X '!*.slim' -- \"${cur}\") )\n", names)
	s.printf("        return\n")
	s.printf("    fi\n\n")
	s.printf("    case \"${cmd}\" in\n")

	for _, c := range cmds {
		switch c.Name {
		case "completion":
			s.printf("        completion)\n")
			s.printf("            COMPREPLY=( $(compgen -W \"bash zsh fish powershell\" -- \"${cur}\") )\n")
			s.printf("            ;;\n")
			continue
		case "help":
			s.printf("        help)\n")
			s.printf("            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n", names)
			s.printf("            ;;\n")
			continue
		}
		if len(c.Flags) == 0 {
			continue
		}

		s.printf("        %s)\n", c.Name)
		s.printf("            case \"${prev}\" in\n")
		for _, f := range c.Flags {
			if f.Type == flagBool {
				continue
			}
			s.printf("                %s)\n", strings.Join(flagWords([]flagDef{f}), "|"))
			switch f.Type {
			case flagEnum:
				s.printf("                    COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n", strings.Join(f.Values, " "))
			case flagFile:
				s.printf("                    COMPREPLY=( $(compgen -f -X '!@(%s)' -- \"${cur}\") $(compgen -d -- \"${cur}\") )\n",
					strings.Join(globs(f.FileGlob), "|"))
			case flagDir:
				s.printf("                    COMPREPLY=( $(compgen -d -- \"${cur}\") )\n")
			default:
				s.printf("                    COMPREPLY=()\n")
			}
			s.printf("                    return\n")
			s.printf("                    ;;\n")
		}
		s.printf("            esac\n")
		s.printf("            if [[ ${cur} == -* ]]; then\n")
		s.printf("                COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n", strings.Join(flagWords(c.Flags), " "))
		if c.TakesFiles {
			s.printf("            else\n")
			s.printf("                COMPREPLY=( $(compgen -f -X '!%s' -- \"${cur}\") $(compgen -d -- \"${cur}\") )\n", c.FilePattern)
		} else {
			s.printf("            else\n")
			s.printf("                COMPREPLY=( $(compgen -d -- \"${cur}\") )\n")
		}
		s.printf("            fi\n")
		s.printf("            ;;\n")
	}

	s.printf("    esac\n")
	s.printf("}\n\n")
	s.printf("complete -F _slim2md_completions slim2md\n")
	return s.err
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

// zshEscape drops characters that end a zsh _arguments field.
func zshEscape(s string) string {
	return strings.NewReplacer("[", "(", "]", ")", "'", "", ":", " -").Replace(s)
}

func generateZsh(w io.Writer, cmds []commandDef) error {
	s := &scriptWriter{w: w}

	s.printf("#compdef slim2md\n\n")
	s.printf("_slim2md() {\n")
	s.printf("    local -a commands\n")
	s.printf("    commands=(\n")
	for _, c := range cmds {
		s.printf("        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	s.printf("    )\n\n")
	s.printf("    if (( CURRENT == 2 )); then\n")
	s.printf("        _describe 'command' commands\n")
	s.printf("        _files -g '*.slim'\n")
	s.printf("        return\n")
	s.printf("    fi\n\n")
	s.printf("    case \"${words[2]}\" in\n")

	for _, c := range cmds {
		switch c.Name {
		case "completion":
			s.printf("        completion)\n")
			s.printf("            _values 'shell' bash zsh fish powershell\n")
			s.printf("            ;;\n")
			continue
		case "help":
			s.printf("        help)\n")
			s.printf("            _describe 'command' commands\n")
			s.printf("            ;;\n")
			continue
		}
		if len(c.Flags) == 0 {
			continue
		}

		s.printf("        %s)\n", c.Name)
		s.printf("            _arguments \\\n")
		for _, f := range c.Flags {
			s.printf("                %s \\\n", zshFlagSpec(f))
		}
		if c.TakesFiles {
			s.printf("                '*:file:_files -g \"%s\"'\n", c.FilePattern)
		} else {
			s.printf("                '*:directory:_files -/'\n")
		}
		s.printf("            ;;\n")
	}

	s.printf("    esac\n")
	s.printf("}\n\n")
	s.printf("compdef _slim2md slim2md\n")
	return s.err
}

// zshFlagSpec renders one _arguments specification.
func zshFlagSpec(f flagDef) string {
	desc := zshEscape(f.Desc)

	var action string
	switch f.Type {
	case flagBool:
		action = ""
	case flagEnum:
		action = ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		action = ":file:_files -g \"" + strings.Join(globs(f.FileGlob), " ") + "\""
	case flagDir:
		action = ":directory:_files -/"
	default:
		action = ":" + f.Long + ":"
	}

	if f.Short == "" {
		return fmt.Sprintf("'--%s[%s]%s'", f.Long, desc, action)
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

// fishEscape escapes a single-quoted fish string.
func fishEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

func generateFish(w io.Writer, cmds []commandDef) error {
	s := &scriptWriter{w: w}

	s.printf("# fish completion for slim2md\n\n")
	s.printf("function __fish_slim2md_needs_command\n")
	s.printf("    set -l cmd (commandline -opc)\n")
	s.printf("    test (count $cmd) -eq 1\n")
	s.printf("end\n\n")
	s.printf("function __fish_slim2md_using_command\n")
	s.printf("    set -l cmd (commandline -opc)\n")
	s.printf("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	s.printf("end\n\n")
	s.printf("complete -c slim2md -f\n")

	for _, c := range cmds {
		s.printf("complete -c slim2md -n __fish_slim2md_needs_command -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	s.printf("complete -c slim2md -n __fish_slim2md_needs_command -F\n\n")

	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_slim2md_using_command %s'", c.Name)
		switch c.Name {
		case "completion":
			s.printf("complete -c slim2md -n %s -x -a 'bash zsh fish powershell'\n", cond)
			continue
		case "help":
			s.printf("complete -c slim2md -n %s -x -a '%s'\n", cond, commandNames(cmds))
			continue
		}

		for _, f := range c.Flags {
			spec := "-l " + f.Long
			if f.Short != "" {
				spec = "-s " + f.Short + " " + spec
			}
			switch f.Type {
			case flagBool:
			case flagEnum:
				spec += " -x -a '" + strings.Join(f.Values, " ") + "'"
			case flagFile:
				spec += " -r -F"
			case flagDir:
				spec += " -x -a '(__fish_complete_directories)'"
			default:
				spec += " -x"
			}
			s.printf("complete -c slim2md -n %s %s -d '%s'\n", cond, spec, fishEscape(f.Desc))
		}
		if c.TakesFiles {
			s.printf("complete -c slim2md -n %s -F\n", cond)
		}
	}
	return s.err
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

// psEscape escapes a single-quoted PowerShell string.
func psEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func generatePowerShell(w io.Writer, cmds []commandDef) error {
	s := &scriptWriter{w: w}

	s.printf("# PowerShell completion for slim2md\n")
	s.printf("Register-ArgumentCompleter -Native -CommandName slim2md -ScriptBlock {\n")
	s.printf("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")

	s.printf("    $commands = [ordered]@{\n")
	for _, c := range cmds {
		s.printf("        '%s' = '%s'\n", c.Name, psEscape(c.Desc))
	}
	s.printf("    }\n\n")

	s.printf("    $flags = @{\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		quoted := make([]string, 0, len(c.Flags)*2)
		for _, word := range flagWords(c.Flags) {
			quoted = append(quoted, "'"+word+"'")
		}
		s.printf("        '%s' = @(%s)\n", c.Name, strings.Join(quoted, ", "))
	}
	s.printf("    }\n\n")

	s.printf("    $words = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })\n")
	s.printf("    if ($words.Count -lt 2 -or ($words.Count -eq 2 -and $wordToComplete -ne '')) {\n")
	s.printf("        $commands.GetEnumerator() | Where-Object { $_.Key -like \"$wordToComplete*\" } | ForEach-Object {\n")
	s.printf("            [System.Management.Automation.CompletionResult]::new($_.Key, $_.Key, 'ParameterValue', $_.Value)\n")
	s.printf("        }\n")
	s.printf("        return\n")
	s.printf("    }\n\n")
	s.printf("    $cmd = $words[1]\n")
	s.printf("    if ($cmd -eq 'completion') {\n")
	s.printf("        'bash', 'zsh', 'fish', 'powershell' | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	s.printf("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	s.printf("        }\n")
	s.printf("        return\n")
	s.printf("    }\n")
	s.printf("    if ($flags.ContainsKey($cmd) -and $wordToComplete -like '-*') {\n")
	s.printf("        $flags[$cmd] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	s.printf("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)\n")
	s.printf("        }\n")
	s.printf("    }\n")
	s.printf("}\n")
	return s.err
}
