// Package codec maps models.Record to/from the binary schema persisted in
// Store, using hand-written msgp append/read calls in the generated-code
// idiom so new fields can be appended without breaking old records (spec.md
// §4.1).
package codec

import (
	"github.com/tinylib/msgp/msgp"

	"newsthreads/internal/models"
)

// EncodeArticle appends rec's msgp encoding to buf and returns the result.
func EncodeArticle(buf []byte, rec models.Record) []byte {
	buf = msgp.AppendMapHeader(buf, 10)

	buf = msgp.AppendString(buf, "file_name")
	buf = msgp.AppendString(buf, rec.FileName)

	buf = msgp.AppendString(buf, "title")
	buf = msgp.AppendString(buf, rec.Title)

	buf = msgp.AppendString(buf, "url")
	buf = msgp.AppendString(buf, rec.URL)

	buf = msgp.AppendString(buf, "accuracy")
	buf = msgp.AppendFloat64(buf, rec.Accuracy)

	buf = msgp.AppendString(buf, "date_published")
	buf = msgp.AppendInt64(buf, rec.DatePublished)

	buf = msgp.AppendString(buf, "category")
	buf = msgp.AppendInt(buf, int(rec.Category))

	buf = msgp.AppendString(buf, "language")
	buf = msgp.AppendInt(buf, int(rec.Language))

	buf = msgp.AppendString(buf, "us_rating")
	buf = msgp.AppendFloat32(buf, rec.USRating)

	buf = msgp.AppendString(buf, "ru_rating")
	buf = msgp.AppendFloat32(buf, rec.RURating)

	buf = msgp.AppendString(buf, "gb_rating")
	buf = msgp.AppendFloat32(buf, rec.GBRating)

	return buf
}

// DecodeArticle reads a models.Record from the front of buf, returning any
// unread trailing bytes. Unknown fields are skipped, and fields absent from
// an older record are left at their zero value, so the schema can evolve
// by appending new keys.
func DecodeArticle(buf []byte) (models.Record, []byte, error) {
	var rec models.Record

	n, buf, err := msgp.ReadMapHeaderBytes(buf)
	if err != nil {
		return rec, buf, err
	}

	for i := 0; i < n; i++ {
		var key string
		key, buf, err = msgp.ReadStringBytes(buf)
		if err != nil {
			return rec, buf, err
		}

		switch key {
		case "file_name":
			rec.FileName, buf, err = msgp.ReadStringBytes(buf)
		case "title":
			rec.Title, buf, err = msgp.ReadStringBytes(buf)
		case "url":
			rec.URL, buf, err = msgp.ReadStringBytes(buf)
		case "accuracy":
			rec.Accuracy, buf, err = msgp.ReadFloat64Bytes(buf)
		case "date_published":
			rec.DatePublished, buf, err = msgp.ReadInt64Bytes(buf)
		case "category":
			var v int
			v, buf, err = msgp.ReadIntBytes(buf)
			rec.Category = models.Category(v)
		case "language":
			var v int
			v, buf, err = msgp.ReadIntBytes(buf)
			rec.Language = models.Language(v)
		case "us_rating":
			rec.USRating, buf, err = msgp.ReadFloat32Bytes(buf)
		case "ru_rating":
			rec.RURating, buf, err = msgp.ReadFloat32Bytes(buf)
		case "gb_rating":
			rec.GBRating, buf, err = msgp.ReadFloat32Bytes(buf)
		default:
			buf, err = msgp.Skip(buf)
		}
		if err != nil {
			return rec, buf, err
		}
	}

	return rec, buf, nil
}
