package services

import (
	"io"
	"mime/multipart"
)

// countingReader wraps a payload reader and reports cumulative bytes read to
// a TransferProgress observer. The HTTP transport pulls from it as the body
// streams out, so counts track actual transfer.
type countingReader struct {
	r      io.Reader
	total  int64
	sent   int64
	report TransferProgress
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.sent += int64(n)
		if c.report != nil {
			c.report(c.sent, c.total)
		}
	}
	return n, err
}

// newProgressReader wraps r so onProgress observes bytes of the file payload
// (not multipart framing overhead) as they are consumed.
func newProgressReader(r io.Reader, size int64, onProgress TransferProgress) io.Reader {
	if onProgress == nil {
		return r
	}
	return &countingReader{r: r, total: size, report: onProgress}
}

// newMultipartBody streams a multipart form without buffering the file in
// memory. Fields are written before the file part so servers see metadata
// first. Returns the body reader and its content type; a write failure
// surfaces as a read error on the returned pipe.
func newMultipartBody(fields [][2]string, fileField, fileName string, file io.Reader) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		for _, f := range fields {
			if err := mw.WriteField(f[0], f[1]); err != nil {
				pw.CloseWithError(err)
				return
			}
		}

		part, err := mw.CreateFormFile(fileField, fileName)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}

		pw.CloseWithError(mw.Close())
	}()

	return pr, mw.FormDataContentType()
}
