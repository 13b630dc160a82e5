package lisp

import "log/slog"

// Load evaluates every form of lisp code in data, in order.
func (l Lisp) Load(data string) error {
	forms, err := ReadAll(data)
	if err != nil {
		return err
	}
	for _, form := range forms {
		if _, err := l.EvalExpr(form); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile evaluates the file at path the same way (load-file path) does.
func (l Lisp) LoadFile(path string) error {
	logger.Debug("loading file", slog.String("path", path))
	_, err := l.EvalExpr(List{Symbol("load-file"), String(path)})
	return err
}
