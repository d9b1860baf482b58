package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/akeil/bizgen"
	"github.com/akeil/bizgen/internal/fs"
	"github.com/akeil/bizgen/internal/logging"
	"github.com/akeil/bizgen/pkg/render"
)

const dateFormat = "Jan 02 2006, 15:04"

func doDocList(e *env, kind string) error {
	uid, err := e.userID()
	if err != nil {
		return err
	}

	var docs []*bizgen.Document
	if kind == "" {
		docs, err = bizgen.ListAll(e.repo(), uid)
	} else {
		var k bizgen.Kind
		k, err = bizgen.ParseKind(kind)
		if err != nil {
			return err
		}
		docs, err = e.repo().List(k, uid)
	}
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		fmt.Println("Found no documents.")
		return nil
	}

	for _, d := range docs {
		fmt.Printf("%-22v %5d  %v | %v\n", d.Kind, d.ID, d.Created.Local().Format(dateFormat), d.Name())
	}
	return nil
}

func fetchDocument(e *env, kind string, id int) (*bizgen.Document, error) {
	k, err := bizgen.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	return e.repo().Fetch(k, id)
}

func doDocShow(e *env, kind string, id int, html bool) error {
	d, err := fetchDocument(e, kind, id)
	if err != nil {
		return err
	}

	fmt.Println(d.Title())
	for _, f := range d.Header {
		fmt.Println(f)
	}
	fmt.Println()

	for _, p := range d.Pages() {
		if html {
			fmt.Println(p.HTML())
		} else {
			fmt.Println(p.Plain())
		}
		fmt.Printf("\n-- Page %d of %d --\n\n", p.Number(), p.Total())
	}
	return nil
}

func doDocEdit(e *env, kind string, id int, path string) error {
	k, err := bizgen.ParseKind(kind)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	d, err := bizgen.SetContent(e.repo(), k, id, string(data))
	if err != nil {
		return err
	}
	fmt.Printf("%v %v %q updated, %d page(s)\n", checkmark, d.Kind, d.Name(), len(d.Pages()))
	return nil
}

func doDocDelete(e *env, kind string, id int) error {
	k, err := bizgen.ParseKind(kind)
	if err != nil {
		return err
	}
	err = e.repo().Delete(k, id)
	if err != nil {
		return err
	}
	fmt.Printf("%v %v %d deleted\n", checkmark, k, id)
	return nil
}

// doDocExport renders one or more documents to outDir, in parallel.
func doDocExport(e *env, kind string, ids []int, format, outDir string) error {
	format = strings.ToLower(format)
	if format != "pdf" && format != "docx" {
		return fmt.Errorf("unsupported format %q, choose one of 'pdf', 'docx'", format)
	}

	var group errgroup.Group
	for _, id := range ids {
		id := id
		group.Go(func() error {
			return exportDocument(e, kind, id, format, outDir)
		})
	}
	return group.Wait()
}

func exportDocument(e *env, kind string, id int, format, outDir string) error {
	fmt.Printf("%v download %v %d\n", ellipsis, kind, id)
	d, err := fetchDocument(e, kind, id)
	if err != nil {
		fmt.Printf("%v Failed to download %v %d: %v\n", crossmark, kind, id, err)
		return err
	}

	fmt.Printf("%v render %q\n", ellipsis, d.Name())
	var buf bytes.Buffer
	rc := e.renderContext()
	if format == "pdf" {
		err = rc.PDF(d, &buf)
	} else {
		err = rc.DOCX(d, &buf)
	}
	if err != nil {
		fmt.Printf("%v Failed to render %q: %v\n", crossmark, d.Name(), err)
		return err
	}

	path := filepath.Join(outDir, d.Name()+"."+format)
	return saveExport(path, buf.Bytes(), format == "pdf")
}

// saveExport writes rendered data to path.
// For PDFs, the page count is reported.
func saveExport(path string, data []byte, isPDF bool) error {
	err := fs.WriteAtomic(path, bytes.NewReader(data))
	if err != nil {
		fmt.Printf("%v Failed to save %q: %v\n", crossmark, path, err)
		return err
	}

	if !isPDF {
		fmt.Printf("%v saved as %q.\n", checkmark, path)
		return nil
	}

	n, err := render.PageCount(bytes.NewReader(data))
	if err != nil {
		logging.Warning("Could not count pages of %q: %v", path, err)
		fmt.Printf("%v saved as %q.\n", checkmark, path)
		return nil
	}
	fmt.Printf("%v saved as %q, %d page(s).\n", checkmark, path, n)
	return nil
}
