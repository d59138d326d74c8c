package darwin

import "fmt"

// FileManagerService opens paths in Finder.
type FileManagerService struct {
	run runner
}

func (s *FileManagerService) Reveal(path string) error {
	return s.open("reveal", "-R", path)
}

func (s *FileManagerService) Open(path string) error {
	return s.open("open", path)
}

func (s *FileManagerService) open(op string, args ...string) error {
	if output, err := s.run("open", args...); err != nil {
		return fmt.Errorf("failed to %s in Finder: %w (output: %s)", op, err, string(output))
	}
	return nil
}
