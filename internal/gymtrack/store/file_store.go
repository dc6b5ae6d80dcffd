package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/dplatten/gymtrack/internal/gymtrack/model"
	"github.com/dplatten/gymtrack/internal/telemetry/tracing"
	"github.com/dplatten/gymtrack/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	// json file names for the two marshaled collections,
	// saved within the store root path
	exercisesJsonFileName = "exercises.json"
	workoutsJsonFileName  = "workouts.json"
)

// FileStore persists the exercise and workout collections as two JSON
// documents in a local directory. Every save is a wholesale overwrite of
// the document; loads of a missing or unreadable document degrade to an
// empty collection instead of failing.
type FileStore struct {
	rootPath string
}

func NewFileStore(rootPath string) (*FileStore, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}
	exists, err := pkg.PathExists(rootPath, true)
	if err != nil {
		return nil, fmt.Errorf("check root path %s: %w", rootPath, err)
	}
	if !exists {
		return nil, fmt.Errorf("root path [%s] does not exist", rootPath)
	}
	return &FileStore{
		rootPath: rootPath,
	}, nil
}

func (fs *FileStore) SaveExercises(ctx context.Context, exercises []model.Exercise) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "fileStore.saveExercises")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercises.count", len(exercises)))

	return fs.saveCollection(exercisesJsonFileName, exercises)
}

func (fs *FileStore) LoadExercises(ctx context.Context) []model.Exercise {
	_, span := tracing.GlobalTracer.Start(ctx, "fileStore.loadExercises")
	defer span.End()

	var exercises []model.Exercise
	if err := fs.loadCollection(exercisesJsonFileName, &exercises); err != nil {
		log.Errorf("file store: load exercises: %s", err)
		return []model.Exercise{}
	}
	if exercises == nil {
		exercises = []model.Exercise{}
	}

	span.SetAttributes(attribute.Int("exercises.count", len(exercises)))
	return exercises
}

func (fs *FileStore) SaveWorkouts(ctx context.Context, workouts []model.Workout) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "fileStore.saveWorkouts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workouts.count", len(workouts)))

	return fs.saveCollection(workoutsJsonFileName, workouts)
}

func (fs *FileStore) LoadWorkouts(ctx context.Context) []model.Workout {
	_, span := tracing.GlobalTracer.Start(ctx, "fileStore.loadWorkouts")
	defer span.End()

	var workouts []model.Workout
	if err := fs.loadCollection(workoutsJsonFileName, &workouts); err != nil {
		log.Errorf("file store: load workouts: %s", err)
		return []model.Workout{}
	}
	if workouts == nil {
		workouts = []model.Workout{}
	}

	span.SetAttributes(attribute.Int("workouts.count", len(workouts)))
	return workouts
}

func (fs *FileStore) saveCollection(fileName string, collection any) error {
	collectionJsonPath := path.Join(fs.rootPath, fileName)
	log.Debugf("file store: saving collection to: %s", collectionJsonPath)

	collectionJson, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}

	dst, err := os.Create(collectionJsonPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, bytes.NewReader(collectionJson)); err != nil {
		return err
	}

	return nil
}

func (fs *FileStore) loadCollection(fileName string, dst any) error {
	collectionJsonPath := path.Join(fs.rootPath, fileName)
	log.Debugf("file store: loading collection from: %s", collectionJsonPath)

	collectionJsonExists, err := pkg.PathExists(collectionJsonPath, false)
	if err != nil {
		return fmt.Errorf("check existence of [%s]: %w", collectionJsonPath, err)
	}
	if !collectionJsonExists {
		log.Debugf("file store: [%s] does not exist yet, starting empty", fileName)
		return nil
	}

	collectionJson, err := os.ReadFile(collectionJsonPath)
	if err != nil {
		return fmt.Errorf("read [%s]: %w", collectionJsonPath, err)
	}

	if err := json.Unmarshal(collectionJson, dst); err != nil {
		return fmt.Errorf("unmarshal [%s]: %w", fileName, err)
	}

	return nil
}
