package scheduler

import "strings"

// safeCommands is the allow-list of console command prefixes a scheduled
// task may send. Anything else is skipped at execution time.
var safeCommands = []string{
	"save-all",
	"whitelist",
	"op",
	"deop",
	"kick",
	"ban",
	"pardon",
	"give",
	"tp",
	"teleport",
	"gamemode",
	"gamerule",
	"time",
	"weather",
	"say",
	"tell",
	"tellraw",
	"tag",
	"effect",
	"title",
	"kill",
	"clear",
	"difficulty",
	"setworldspawn",
	"spawnpoint",
	"xp",
	"experience",
	"enchant",
	"scoreboard",
	"team",
}

// shell metacharacters that must never reach the remote command line
const unsafeChars = ";|`$><\\\n\r"

// IsSafe reports whether a single console command may be scheduled. The
// command must start with an allow-listed keyword and carry no shell
// metacharacters anywhere.
func IsSafe(command string) bool {
	command = strings.TrimSpace(command)
	if command == "" {
		return false
	}
	if strings.ContainsAny(command, unsafeChars) {
		return false
	}
	first := strings.Fields(command)[0]
	for _, safe := range safeCommands {
		if strings.EqualFold(first, safe) {
			return true
		}
	}
	return false
}

// SplitCommands breaks a task command into its sub-commands. Each is
// validated independently; a rejected sub-command does not stop its
// siblings.
func SplitCommands(command string) []string {
	var out []string
	for _, part := range strings.Split(command, MultiCommandSeparator) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
