// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tool

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"golang.org/x/sys/unix"
	"v.io/x/lib/envvar"
	"v.io/x/lib/lookpath"
)

// Result holds the captured streams of a finished subprocess.
type Result struct {
	Stdout string
	Stderr string
	// Exit is non-nil if the process exited with a non-zero status.
	Exit error
}

// Exec runs path with args and waits for it to exit.  The process reads no
// input, and runs in its own process group; when ctx is done the whole group
// is killed and an error of kind errors.Timeout or errors.Canceled is
// returned.  A non-zero exit status is reported in Result.Exit, not as an
// error.
func Exec(ctx context.Context, path string, args ...string) (Result, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(path, args...)
	cmd.Stdin = nil
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	log.Debug.Printf("exec: %s %s", path, strings.Join(args, " "))
	if err := cmd.Start(); err != nil {
		return Result{}, errors.E(err, "start", path)
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var waitErr error
	select {
	case waitErr = <-done:
	case <-ctx.Done():
		if err := unix.Kill(-cmd.Process.Pid, unix.SIGKILL); err != nil {
			log.Error.Printf("exec: kill %s (pid %d): %v", path, cmd.Process.Pid, err)
		}
		<-done
		kind := errors.Canceled
		if ctx.Err() == context.DeadlineExceeded {
			kind = errors.Timeout
		}
		return Result{Stdout: stdout.String(), Stderr: stderr.String()},
			errors.E(kind, ctx.Err(), path, "did not finish")
	}
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if waitErr != nil {
		if _, ok := waitErr.(*exec.ExitError); !ok {
			return res, errors.E(waitErr, "wait", path)
		}
		res.Exit = waitErr
	}
	return res, nil
}

// Resolve returns the absolute path of an executable.  A name containing a
// path separator is used as is; any other name is looked up in $PATH.
func Resolve(ctx context.Context, name string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		if _, err := file.Stat(ctx, name); err != nil {
			return "", errors.E(errors.NotExist, err, "executable", name)
		}
		return filepath.Abs(name)
	}
	path, err := lookpath.Look(envvar.SliceToMap(os.Environ()), name)
	if err != nil {
		return "", errors.E(errors.NotExist, err, "executable", name, "not found in PATH")
	}
	return path, nil
}
