// Package blobstore предоставляет репозитории документов поверх db.BlobStorage.
//
// Документ хранится целиком под одним ключом и целиком перезаписывается при сохранении.
// Отсутствующий ключ читается как пустой документ.
//
// Все методы преобразуют ошибки хранилищ в общие ошибки уровня репозитория
// с помощью convertErrorType:
//   - memory.ErrNotFound, filestore.ErrNotFound, gorm.ErrRecordNotFound, pgx.ErrNoRows -> repositories.ErrNotFound
//   - db.ErrDecode, filestore.ErrCorrupted -> repositories.ErrDecode
//   - другие ошибки -> repositories.ErrUnknown
package blobstore
