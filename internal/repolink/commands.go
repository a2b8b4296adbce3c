package repolink

import (
	"fmt"

	"unityquick/internal/process"
)

const (
	ghExecutable  = "gh"
	gitExecutable = "git"
)

func authStatusCommand() process.CommandSpec {
	return process.Command(ghExecutable, "auth", "status")
}

func authLoginCommand() process.CommandSpec {
	spec := process.Command(ghExecutable, "auth", "login")
	spec.Interactive = true
	return spec
}

func whoAmICommand() process.CommandSpec {
	return process.Command(ghExecutable, "api", "user", "--jq", ".login")
}

func orgListCommand() process.CommandSpec {
	return process.Command(ghExecutable, "org", "list")
}

func repoViewCommand(owner, name string) process.CommandSpec {
	return process.Command(ghExecutable, "repo", "view", FullName(owner, name))
}

func repoCreateCommand(owner, name, path string) process.CommandSpec {
	return process.Command(ghExecutable, "repo", "create", FullName(owner, name), "--private", "--source", path)
}

func remoteAddCommand(owner, name, path string) process.CommandSpec {
	return process.Command(gitExecutable, "remote", "add", "origin", RemoteURL(owner, name)).In(path)
}

// FullName renders owner/name.
func FullName(owner, name string) string {
	return owner + "/" + name
}

// RemoteURL is the HTTPS clone URL of owner/name on github.com.
func RemoteURL(owner, name string) string {
	return fmt.Sprintf("https://github.com/%s/%s.git", owner, name)
}
