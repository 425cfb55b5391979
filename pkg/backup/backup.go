package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"EchoBoard/internal/models"
	"EchoBoard/pkg/config"
	"EchoBoard/pkg/logger"
	"EchoBoard/pkg/scheduler"
	stores "EchoBoard/pkg/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterJobs 向调度器注册备份与孤儿音频清理任务
func RegisterJobs(cr *scheduler.Cron, db *gorm.DB, store stores.Store) error {
	if config.GlobalConfig.BackupEnabled {
		if _, err := cr.AddWithCtx(config.GlobalConfig.BackupSchedule, func(ctx context.Context) {
			if err := ExecuteBackup(); err != nil {
				logger.Warn("backup failed", zap.Error(err))
			} else {
				logger.Info("backup completed")
			}
		}); err != nil {
			return err
		}
	}

	if config.GlobalConfig.SweepSchedule != "" {
		if _, err := cr.AddWithCtx(config.GlobalConfig.SweepSchedule, func(ctx context.Context) {
			n, err := SweepOrphanedAudio(ctx, db, store)
			if err != nil {
				logger.Warn("orphan sweep failed", zap.Error(err))
				return
			}
			if n > 0 {
				logger.Info("orphan sweep removed objects", zap.Int("count", n))
			}
		}); err != nil {
			return err
		}
	}

	return nil
}

// ExecuteBackup 根据配置执行数据库备份
func ExecuteBackup() error {
	switch config.GlobalConfig.DBDriver {
	case "sqlite":
		dst := filepath.Join(config.GlobalConfig.BackupPath, fmt.Sprintf("sys_backup_%s.db", time.Now().Format("20060102_150405")))
		return BackupSQLiteDatabase(config.GlobalConfig.DSN, dst)
	case "mysql":
		dst := filepath.Join(config.GlobalConfig.BackupPath, fmt.Sprintf("sys_backup_%s.sql", time.Now().Format("20060102_150405")))
		return BackupMySQLDatabase(config.GlobalConfig.DSN, dst)
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", config.GlobalConfig.DBDriver)
	}
}

// BackupSQLiteDatabase 执行 SQLite 数据库的备份
func BackupSQLiteDatabase(src string, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create backup directory: %v", err)
	}

	sourceFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("error opening source file: %v", err)
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("error creating destination file: %v", err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return fmt.Errorf("error copying data: %v", err)
	}

	logger.Info("sqlite backup completed", zap.String("path", dst))
	return nil
}

// BackupMySQLDatabase 执行 MySQL 数据库的备份
func BackupMySQLDatabase(dsn, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create backup directory: %v", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("error creating destination file: %v", err)
	}
	defer out.Close()

	cmd := exec.Command("mysqldump", dsn)
	cmd.Stdout = out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to backup MySQL database: %v", err)
	}

	logger.Info("mysql backup completed", zap.String("path", dst))
	return nil
}

// SweepOrphanedAudio 删除存储中没有对应数据库记录的音频对象。
// 头像等其它前缀的对象不在清理范围内。
func SweepOrphanedAudio(ctx context.Context, db *gorm.DB, store stores.Store) (int, error) {
	keys, err := store.List(ctx, "")
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, key := range keys {
		if !strings.HasSuffix(key, ".mp3") || strings.Contains(key, "/") {
			continue
		}

		var count int64
		if err := db.WithContext(ctx).Model(&models.Soundboard{}).
			Where("file_name = ?", key).Count(&count).Error; err != nil {
			return removed, err
		}
		if count > 0 {
			continue
		}

		if err := store.Delete(ctx, key); err != nil {
			logger.Warn("failed to delete orphaned object", zap.String("key", key), zap.Error(err))
			continue
		}
		removed++
	}

	return removed, nil
}
