// Package prof captures Go runtime profiles of a cxxfront run.
package prof

import (
	"errors"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Session holds the profiles requested for one run. Empty paths disable the
// corresponding profile.
type Session struct {
	CPUPath   string
	MemPath   string
	TracePath string

	cpuFile   *os.File
	traceFile *os.File
}

// Start enables CPU profiling and runtime tracing. On error nothing is left
// running.
func (s *Session) Start() error {
	if s.CPUPath != "" {
		f, err := os.Create(s.CPUPath)
		if err != nil {
			return err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return err
		}
		s.cpuFile = f
	}
	if s.TracePath != "" {
		f, err := os.Create(s.TracePath)
		if err != nil {
			s.stopCPU()
			return err
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			s.stopCPU()
			return err
		}
		s.traceFile = f
	}
	return nil
}

// Stop ends the running profiles and writes the heap profile.
func (s *Session) Stop() error {
	errCPU := s.stopCPU()
	var errTrace error
	if s.traceFile != nil {
		trace.Stop()
		errTrace = s.traceFile.Close()
		s.traceFile = nil
	}
	var errMem error
	if s.MemPath != "" {
		errMem = writeHeap(s.MemPath)
	}
	return errors.Join(errCPU, errTrace, errMem)
}

func (s *Session) stopCPU() error {
	if s.cpuFile == nil {
		return nil
	}
	pprof.StopCPUProfile()
	err := s.cpuFile.Close()
	s.cpuFile = nil
	return err
}

func writeHeap(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
