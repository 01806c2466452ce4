package core

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/user"
	"runtime"
	"strings"
)

func ExecutablePath() string {
	path, err := os.Executable()
	if err != nil {
		return ""
	}
	return path
}

func CheckRootPrivileges() bool {
	if runtime.GOOS == "windows" {
		return true
	}
	currentUser, err := user.Current()
	if err != nil {
		return false
	}
	return currentUser.Uid == "0"
}

// Writable reports whether path can be opened for writing. The file is not
// truncated.
func Writable(path string) bool {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// YesNoPrompt writes prompt to out and reads a y/yes answer from in.
func YesNoPrompt(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// Escalate re-runs this executable with args under sudo, attached to the
// current terminal.
func Escalate(args []string) error {
	cmd := exec.Command("sudo", append([]string{ExecutablePath()}, args...)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
