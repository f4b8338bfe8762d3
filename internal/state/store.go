// Пакет state — долговременный леджер дедупликации: множество orderItemId,
// уже попавших в экспорт. Файл переписывается целиком, отсортированным,
// поэтому на диске всегда лежит полный согласованный снимок.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Gunvolt24/bol_export/internal/ports"
)

// ErrState — файл состояния существует, но прочитать его нельзя.
var ErrState = errors.New("state file unreadable")

const stateFileName = "processed_orders.json"

// stateFile — формат файла на диске.
type stateFile struct {
	ProcessedOrderItemIDs []string `json:"processed_order_item_ids"`
}

// Проверка, что Store удовлетворяет порту StateStore.
var _ ports.StateStore = (*Store)(nil)

// Store — файловый леджер. Рассчитан на один экземпляр пайплайна:
// межпроцессных блокировок нет.
type Store struct {
	path string
	log  ports.Logger
}

// NewStore — конструктор. Материализует пустой файл при первом запуске.
func NewStore(stateDir string, log ports.Logger) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	s := &Store{path: filepath.Join(stateDir, stateFileName), log: log}

	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		if writeErr := s.write(nil); writeErr != nil {
			return nil, writeErr
		}
		log.Infof(context.Background(), "created new state file: %s", s.path)
	} else if err != nil {
		return nil, fmt.Errorf("stat state file: %w", err)
	}

	return s, nil
}

// Path — расположение файла состояния.
func (s *Store) Path() string { return s.path }

// Load возвращает множество закоммиченных идентификаторов.
func (s *Store) Load(ctx context.Context) (map[string]struct{}, error) {
	ids, err := s.read()
	if err != nil {
		return nil, err
	}
	s.log.Infof(ctx, "loaded %d processed order items from state", len(ids))
	return ids, nil
}

// read — чтение леджера без логирования (Commit перечитывает файл молча).
func (s *Store) read() (map[string]struct{}, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		// Файл мог быть удалён после конструктора — материализуем заново.
		if writeErr := s.write(nil); writeErr != nil {
			return nil, writeErr
		}
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrState, err)
	}

	var f stateFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrState, err)
	}

	ids := make(map[string]struct{}, len(f.ProcessedOrderItemIDs))
	for _, id := range f.ProcessedOrderItemIDs {
		ids[id] = struct{}{}
	}
	return ids, nil
}

// Commit дописывает новые идентификаторы: перечитывает текущее состояние,
// объединяет и переписывает файл полностью. Идентификаторы никогда не удаляются.
func (s *Store) Commit(ctx context.Context, newIDs []string) error {
	if len(newIDs) == 0 {
		return nil
	}

	current, err := s.read()
	if err != nil {
		return err
	}

	before := len(current)
	for _, id := range newIDs {
		current[id] = struct{}{}
	}

	sorted := make([]string, 0, len(current))
	for id := range current {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	if err := s.write(sorted); err != nil {
		return err
	}

	s.log.Infof(ctx, "added %d new order items to state (total: %d)", len(current)-before, len(current))
	return nil
}

// write сохраняет полный снимок через временный файл и rename,
// чтобы упавшая посередине запись не оставила битый леджер.
func (s *Store) write(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.MarshalIndent(stateFile{ProcessedOrderItemIDs: ids}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
