//go:build unix

package job

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

// Unix has no exit code reserved for "needs elevation"; permission errors at
// launch produce the hint instead.
const elevationRequiredCode = -1

func isNative(path string, info fs.FileInfo) bool {
	return info.Mode()&0111 != 0
}

func elevatedCommand(path string, args []string) []string {
	return append([]string{"sudo", path}, args...)
}

func shellCommand(path string, args []string) []string {
	return append([]string{"/bin/sh", path}, args...)
}

func needsElevation(err error) bool {
	return isPermission(err)
}

// terminal returns the fd of the controlling terminal if the job reads from
// it.
func (j *Job) terminal() (int, bool) {
	f, ok := j.Stdin.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return 0, false
	}
	return int(f.Fd()), true
}

// run places the child in its own process group so the whole tree can be
// killed at once. When the child reads from the terminal its group is given
// the foreground and Ctrl-C reaches it directly.
func (j *Job) run(argv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	// A nil Env would inherit the parent environment.
	cmd.Env = append([]string{}, j.Env...)
	cmd.Dir = j.Dir
	cmd.Stdin = j.Stdin
	cmd.Stdout = j.Stdout
	cmd.Stderr = j.Stderr

	attr := &syscall.SysProcAttr{Setpgid: true}
	tty, foreground := j.terminal()
	if foreground {
		attr.Foreground = true
		attr.Ctty = tty
	}
	cmd.SysProcAttr = attr

	if err := cmd.Start(); err != nil {
		return j.launchFailed(err)
	}
	j.setState(Spawned)
	if foreground {
		defer reclaimTerminal(tty)
	}
	j.setState(Running)

	pgid := cmd.Process.Pid
	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()
	j.setState(Waiting)
	select {
	case err := <-done:
		return j.exited(err)
	case <-j.Interrupt.Done():
		_ = unix.Kill(-pgid, unix.SIGKILL)
		<-done
		return j.interrupted()
	}
}

func (j *Job) exited(err error) error {
	if err == nil {
		return j.finish(0)
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		j.setState(Completed)
		return err
	}

	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		if ws.Signal() == syscall.SIGINT {
			// The child owned the terminal, so the shell never saw Ctrl-C.
			j.Interrupt.Raise()
			return j.interrupted()
		}
		return j.finish(128 + int(ws.Signal()))
	}

	return j.finish(exitErr.ExitCode())
}

// reclaimTerminal puts the shell's own process group back in the foreground.
func reclaimTerminal(fd int) {
	signal.Ignore(syscall.SIGTTOU)
	defer signal.Reset(syscall.SIGTTOU)
	_ = unix.IoctlSetPointerInt(fd, unix.TIOCSPGRP, unix.Getpgrp())
}
