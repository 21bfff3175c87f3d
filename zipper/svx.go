package zipper

import (
	"archive/zip"
	"fmt"
	"time"
)

// SVXSlice slices every part into its own SVX file: a ZIP holding a
// manifest and one 8-bit density image per Z slice.
func SVXSlice(baseFilename string, s Slicer) error {
	zp := &zipper{fmtStr: "density/slice%04d.png", suffix: "svx", manifest: true, author: "mesh-slicer"}
	return processMaterials(baseFilename, s, zp)
}

func (zp *zipper) writeManifest(s Slicer) error {
	fh := &zip.FileHeader{
		Name:     "manifest.xml",
		Method:   zip.Deflate,
		Modified: time.Now(),
	}
	f, err := zp.w.CreateHeader(fh)
	if err != nil {
		return fmt.Errorf("Unable to create ZIP file %q: %v", fh.Name, err)
	}

	_, _, zRes := s.Resolution()
	voxelSize := zRes / 1e6 // in meters

	if _, err := fmt.Fprintf(f, manifestFmt,
		s.NumXSlices(),
		s.NumYSlices(),
		s.NumZSlices(),
		voxelSize,
		zp.author,
		time.Now().Format("2006-01-02")); err != nil {
		return fmt.Errorf("manifest: %v", err)
	}
	return nil
}

var manifestFmt = `<?xml version="1.0"?>

<grid version="1.0" gridSizeX="%v" gridSizeY="%v" gridSizeZ="%v"
   voxelSize="%v" subvoxelBits="8" slicesOrientation="Z" >

    <channels>
        <channel type="DENSITY" bits="8" slices="density/slice%%04d.png" />
    </channels>

    <materials>
        <material id="1" urn="urn:shapeways:materials/1" />
    </materials>

    <metadata>
        <entry key="author" value=%q />
        <entry key="creationDate" value=%q />
    </metadata>
</grid>`
