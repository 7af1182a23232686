package job

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

const elevationRequiredCode = int(windows.ERROR_ELEVATION_REQUIRED)

func isNative(path string, info fs.FileInfo) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".exe", ".com":
		return true
	}
	return false
}

// elevatedCommand starts the program through UAC and waits for it, passing
// its exit code back.
func elevatedCommand(path string, args []string) []string {
	quoted := make([]string, 0, len(args))
	for _, a := range args {
		quoted = append(quoted, "'"+strings.ReplaceAll(a, "'", "''")+"'")
	}
	script := fmt.Sprintf("$p = Start-Process -FilePath '%s' -Verb RunAs -Wait -PassThru", strings.ReplaceAll(path, "'", "''"))
	if len(quoted) > 0 {
		script += " -ArgumentList " + strings.Join(quoted, ",")
	}
	script += "; exit $p.ExitCode"
	return []string{"powershell.exe", "-NoProfile", "-NonInteractive", "-Command", script}
}

func shellCommand(path string, args []string) []string {
	return append([]string{"cmd.exe", "/C", path}, args...)
}

func needsElevation(err error) bool {
	return errors.Is(err, windows.ERROR_ELEVATION_REQUIRED) || isPermission(err)
}

// run spawns the process suspended, places it in a job object that kills
// every descendant when closed, then resumes it and waits on both the process
// and the interrupt event.
func (j *Job) run(argv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	// A nil Env would inherit the parent environment.
	cmd.Env = append([]string{}, j.Env...)
	cmd.Dir = j.Dir
	cmd.Stdin = j.Stdin
	cmd.Stdout = j.Stdout
	cmd.Stderr = j.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: windows.CREATE_SUSPENDED}

	if err := cmd.Start(); err != nil {
		return j.launchFailed(err)
	}
	j.setState(Spawned)

	group, err := newGroup(uint32(cmd.Process.Pid))
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return j.launchFailed(err)
	}
	defer group.Close()

	if err := resumeProcess(uint32(cmd.Process.Pid)); err != nil {
		group.Terminate()
		_ = cmd.Wait()
		return j.launchFailed(err)
	}
	j.setState(Running)

	event, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		group.Terminate()
		_ = cmd.Wait()
		return j.launchFailed(err)
	}
	defer windows.CloseHandle(event)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-j.Interrupt.Done():
			_ = windows.SetEvent(event)
		case <-stop:
		}
	}()

	j.setState(Waiting)
	ret, err := windows.WaitForMultipleObjects([]windows.Handle{group.process, event}, false, windows.INFINITE)
	if err != nil {
		group.Terminate()
		_ = cmd.Wait()
		return err
	}

	if ret == windows.WAIT_OBJECT_0+1 {
		group.Terminate()
		_ = cmd.Wait()
		return j.interrupted()
	}

	err = cmd.Wait()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return j.finish(0)
	case errors.As(err, &exitErr):
		return j.finish(exitErr.ExitCode())
	default:
		j.setState(Completed)
		return err
	}
}

// processGroup owns the handles of a job object and its first process.
type processGroup struct {
	job     windows.Handle
	process windows.Handle
}

func newGroup(pid uint32) (*processGroup, error) {
	const access = windows.PROCESS_SET_QUOTA | windows.PROCESS_TERMINATE |
		windows.SYNCHRONIZE | windows.PROCESS_QUERY_LIMITED_INFORMATION

	process, err := windows.OpenProcess(access, false, pid)
	if err != nil {
		return nil, err
	}

	job, err := windows.CreateJobObject(nil, nil)
	if err != nil {
		windows.CloseHandle(process)
		return nil, err
	}
	g := &processGroup{job: job, process: process}

	info := windows.JOBOBJECT_EXTENDED_LIMIT_INFORMATION{
		BasicLimitInformation: windows.JOBOBJECT_BASIC_LIMIT_INFORMATION{
			LimitFlags: windows.JOB_OBJECT_LIMIT_KILL_ON_JOB_CLOSE,
		},
	}
	if _, err := windows.SetInformationJobObject(
		job,
		windows.JobObjectExtendedLimitInformation,
		uintptr(unsafe.Pointer(&info)),
		uint32(unsafe.Sizeof(info)),
	); err != nil {
		g.Close()
		return nil, err
	}

	if err := windows.AssignProcessToJobObject(job, process); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

// Terminate kills every process in the group.
func (g *processGroup) Terminate() {
	_ = windows.TerminateJobObject(g.job, 1)
}

// Close releases the handles; kill-on-close ends any survivors.
func (g *processGroup) Close() {
	windows.CloseHandle(g.job)
	windows.CloseHandle(g.process)
}

// resumeProcess resumes the threads of a process created suspended.
func resumeProcess(pid uint32) error {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPTHREAD, 0)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ThreadEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	resumed := false
	for err = windows.Thread32First(snapshot, &entry); err == nil; err = windows.Thread32Next(snapshot, &entry) {
		if entry.OwnerProcessID != pid {
			continue
		}
		thread, err := windows.OpenThread(windows.THREAD_SUSPEND_RESUME, false, entry.ThreadID)
		if err != nil {
			return err
		}
		_, err = windows.ResumeThread(thread)
		windows.CloseHandle(thread)
		if err != nil {
			return err
		}
		resumed = true
	}
	if !resumed {
		return fmt.Errorf("no threads found for process %d", pid)
	}
	return nil
}
